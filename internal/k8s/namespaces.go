package k8s

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/Taishi66/kube-tree/internal/domain"
)

// ListNamespaces returns every namespace in the order the API server returned them.
func (c *Client) ListNamespaces(ctx context.Context) ([]domain.NamespaceInfo, error) {
	cs, serverURL := c.conn()
	namespaces := []domain.NamespaceInfo{}
	opts := metav1.ListOptions{Limit: listPageSize}
	for {
		nsList, err := cs.CoreV1().Namespaces().List(ctx, opts)
		if err != nil {
			return nil, classifyError(err, serverURL)
		}
		for _, ns := range nsList.Items {
			namespaces = append(namespaces, domain.NamespaceInfo{
				Name:   ns.Name,
				Status: string(ns.Status.Phase),
				Age:    formatAge(ns.CreationTimestamp.Time),
			})
		}
		if nsList.Continue == "" {
			return namespaces, nil
		}
		opts.Continue = nsList.Continue
	}
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		days := int(d.Hours() / 24)
		if days > 365 {
			return fmt.Sprintf("%dy%dd", days/365, days%365)
		}
		return fmt.Sprintf("%dd", days)
	}
}
