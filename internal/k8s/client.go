package k8s

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	"github.com/Taishi66/kube-tree/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Options controls how the client locates and talks to the cluster.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty means $KUBECONFIG, then ~/.kube/config.
	Kubeconfig string
	// Context overrides the kubeconfig current-context.
	Context string
	// Timeout bounds every request made by the clientset.
	Timeout time.Duration
	// StripManagedFields drops metadata.managedFields from rendered manifests.
	StripManagedFields bool
}

// Client wraps the Kubernetes clientset and connection metadata.
// It implements domain.KubeGateway and is safe for concurrent use.
type Client struct {
	opts               Options
	stripManagedFields bool

	// mu guards the connection fields, replaced as a whole by Reconnect.
	mu        sync.RWMutex
	clientset kubernetes.Interface
	context   string
	serverURL string
}

// Compile-time check that Client implements domain.KubeGateway.
var _ domain.KubeGateway = (*Client)(nil)

// --- ClusterInfo implementation ---

func (c *Client) GetContext() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.context
}

func (c *Client) GetServerURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverURL
}

// conn returns the clientset and server URL of the current connection.
func (c *Client) conn() (kubernetes.Interface, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clientset, c.serverURL
}

// kubeconfigPaths returns the kubeconfig files to load, in precedence order.
func kubeconfigPaths(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return filepath.SplitList(env)
	}
	return []string{filepath.Join(homedir.HomeDir(), ".kube", "config")}
}

func anyExists(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

// NewClient creates a K8s client from kubeconfig.
func NewClient(opts Options) (*Client, error) {
	paths := kubeconfigPaths(opts.Kubeconfig)
	if !anyExists(paths) {
		return nil, &domain.APIError{
			Type:    domain.ErrNoKubeconfig,
			Message: fmt.Sprintf("Aucun kubeconfig trouvé.\nConfigurez votre accès avec : kubectl config set-cluster ...\n\nCherché dans : %s", strings.Join(paths, ", ")),
			Err:     os.ErrNotExist,
		}
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{Precedence: paths}
	configOverrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, configOverrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Kubeconfig invalide : %v", err),
			Err:     err,
		}
	}

	contextName := opts.Context
	if contextName == "" {
		contextName = rawConfig.CurrentContext
	}
	if contextName == "" {
		return nil, &domain.APIError{
			Type:    domain.ErrNoContext,
			Message: "Aucun contexte actif dans le kubeconfig.\nUtilisez : kubectl config use-context <ctx>",
		}
	}
	kubeContext, ok := rawConfig.Contexts[contextName]
	if !ok {
		return nil, &domain.APIError{
			Type:    domain.ErrNoContext,
			Message: fmt.Sprintf("Contexte %q introuvable dans le kubeconfig.", contextName),
		}
	}

	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrBadKubeconfig,
			Message: fmt.Sprintf("Impossible de créer la config client : %v", err),
			Err:     err,
		}
	}

	// Optimize for snappy TUI
	restConfig.QPS = 50
	restConfig.Burst = 100
	restConfig.Timeout = opts.Timeout
	if restConfig.Timeout <= 0 {
		restConfig.Timeout = defaultTimeout
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, &domain.APIError{
			Type:    domain.ErrUnknown,
			Message: fmt.Sprintf("Impossible de créer le client K8s : %v", err),
			Err:     err,
		}
	}

	serverURL := ""
	if clusterInfo, ok := rawConfig.Clusters[kubeContext.Cluster]; ok {
		serverURL = clusterInfo.Server
	}

	return &Client{
		clientset:          clientset,
		opts:               opts,
		context:            contextName,
		serverURL:          serverURL,
		stripManagedFields: opts.StripManagedFields,
	}, nil
}

// Reconnect reloads the kubeconfig from disk and recreates the clientset.
// The current clientset is kept unless the new one reaches the API server.
func (c *Client) Reconnect() error {
	newClient, err := NewClient(c.opts)
	if err != nil {
		return err
	}
	if err := newClient.TestConnection(context.Background()); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clientset = newClient.clientset
	c.context = newClient.context
	c.serverURL = newClient.serverURL
	return nil
}

// TestConnection makes a lightweight API call to verify connectivity.
func (c *Client) TestConnection(_ context.Context) error {
	cs, serverURL := c.conn()
	_, err := cs.Discovery().ServerVersion()
	return classifyError(err, serverURL)
}

// classifyError converts a raw K8s error into a domain.APIError.
func classifyError(err error, serverURL string) error {
	if err == nil {
		return nil
	}

	var statusErr *k8serrors.StatusError
	if errors.As(err, &statusErr) {
		code := statusErr.Status().Code
		switch {
		case code == http.StatusUnauthorized:
			target := "le cluster"
			if serverURL != "" {
				target = serverURL
			}
			return &domain.APIError{
				Type:    domain.ErrTokenExpired,
				Message: fmt.Sprintf("Session expirée. Reconnectez-vous à %s\nPuis appuyez sur 'r' pour rafraîchir", target),
				Err:     err,
			}
		case code == http.StatusForbidden:
			return &domain.APIError{
				Type:    domain.ErrForbidden,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusNotFound:
			return &domain.APIError{
				Type:    domain.ErrNotFound,
				Message: statusErr.Status().Message,
				Err:     err,
			}
		case code == http.StatusTooManyRequests:
			return &domain.APIError{
				Type:    domain.ErrRateLimited,
				Message: "Trop de requêtes. Réessayez dans quelques secondes.",
				Err:     err,
			}
		case code >= 500:
			return &domain.APIError{
				Type:    domain.ErrServerError,
				Message: fmt.Sprintf("Erreur serveur (%d). Réessayez avec 'r'.", code),
				Err:     err,
			}
		}
	}

	errStr := err.Error()
	if strings.Contains(errStr, "x509") || strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls") {
		return &domain.APIError{
			Type:    domain.ErrTLS,
			Message: fmt.Sprintf("Certificat TLS invalide pour %s.\nVérifiez votre kubeconfig.", serverURL),
			Err:     err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(errStr, "dial tcp") || strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return &domain.APIError{
			Type:    domain.ErrUnreachable,
			Message: fmt.Sprintf("Cluster injoignable : %s\n%v", serverURL, err),
			Err:     err,
		}
	}

	return &domain.APIError{
		Type:    domain.ErrUnknown,
		Message: err.Error(),
		Err:     err,
	}
}
