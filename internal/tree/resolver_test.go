package tree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"

	"github.com/Taishi66/kube-tree/internal/domain"
)

func podManifest(t *testing.T, name, namespace string) domain.Manifest {
	t.Helper()
	pod := corev1.Pod{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    map[string]string{"app": "web"},
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{Name: "nginx", Image: "nginx:1.27"}},
		},
	}
	data, err := json.Marshal(pod)
	require.NoError(t, err)
	return domain.Manifest{Name: name, Namespace: namespace, Kind: "Pod", JSON: data}
}

func newTestResolver(mock *domain.MockGateway, opts ...Option) *Resolver {
	return NewResolver(mock, DefaultKinds(mock), opts...)
}

func labels(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Label())
	}
	return out
}

func TestChildren_RootListsNamespaces(t *testing.T) {
	mock := &domain.MockGateway{
		Namespaces: []domain.NamespaceInfo{{Name: "default"}, {Name: "kube-system"}},
	}
	r := newTestResolver(mock)

	for _, root := range []Node{nil, Root{}} {
		nodes, err := r.Children(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, []string{"default", "kube-system"}, labels(nodes))
		for _, n := range nodes {
			assert.True(t, n.Expandable(), "namespace %q should be expandable", n.Label())
			assert.IsType(t, NamespaceNode{}, n)
			assert.Equal(t, TagNamespace, n.Tag())
			assert.Equal(t, "NS", n.Description())
		}
	}
}

func TestChildren_RootCarriesNamespaceStatusAndAge(t *testing.T) {
	mock := &domain.MockGateway{
		Namespaces: []domain.NamespaceInfo{
			{Name: "default", Status: "Active", Age: "12d"},
			{Name: "old", Status: "Terminating", Age: "3h"},
		},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []Node{
		NamespaceNode{Namespace: "default", Status: "Active", Age: "12d"},
		NamespaceNode{Namespace: "old", Status: "Terminating", Age: "3h"},
	}, nodes)
	assert.Equal(t, "old", Path(nodes[1]))
}

func TestChildren_RootKeepsClusterOrder(t *testing.T) {
	mock := &domain.MockGateway{
		Namespaces: []domain.NamespaceInfo{{Name: "zeta"}, {Name: "alpha"}, {Name: "mid"}},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, labels(nodes))
}

func TestChildren_RootNamespaceWithoutName(t *testing.T) {
	mock := &domain.MockGateway{
		Namespaces: []domain.NamespaceInfo{{Name: ""}, {Name: "default"}},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"na", "default"}, labels(nodes))
}

func TestChildren_NamespaceListsKindsInOrder(t *testing.T) {
	mock := &domain.MockGateway{}
	r := newTestResolver(mock)

	for _, ns := range []string{"default", "kube-system", ""} {
		nodes, err := r.Children(context.Background(), NamespaceNode{Namespace: ns})
		require.NoError(t, err)

		assert.Equal(t, []string{"V1Pod", "V1Deployment", "V1StatefulSet"}, labels(nodes))
		for _, n := range nodes {
			rt, ok := n.(ResourceTypeNode)
			require.True(t, ok, "child should be a ResourceTypeNode, got %T", n)
			assert.Equal(t, ns, rt.Namespace)
			assert.Equal(t, rt.Kind, rt.Tag())
			assert.True(t, rt.Expandable())
			assert.Equal(t, "Type", rt.Description())
		}
	}
	assert.Zero(t, mock.ListNamespacesCalls+mock.ListPodsCalls+mock.ListDeploymentsCalls+mock.ListStatefulSetsCalls,
		"namespace expansion should not call the cluster")
}

func TestChildren_ResourceTypeListsObjects(t *testing.T) {
	mock := &domain.MockGateway{
		Pods: map[string][]domain.Manifest{
			"default": {podManifest(t, "web-0", "default")},
		},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindPod})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	leaf, ok := nodes[0].(ObjectNode)
	require.True(t, ok, "child should be an ObjectNode, got %T", nodes[0])
	assert.Equal(t, "web-0", leaf.Label())
	assert.Equal(t, "V1Pod", leaf.Kind)
	assert.Equal(t, "default", leaf.Namespace)
	assert.False(t, leaf.Expandable())
	assert.Equal(t, TagObject, leaf.Tag())
	assert.Equal(t, []string{"default"}, mock.ListedNamespaces)

	var decoded corev1.Pod
	require.NoError(t, yaml.Unmarshal([]byte(leaf.YAML), &decoded))
	assert.Equal(t, "web-0", decoded.Name)
	assert.Equal(t, "default", decoded.Namespace)
	assert.Equal(t, "Pod", decoded.Kind)
	assert.Equal(t, map[string]string{"app": "web"}, decoded.Labels)
	require.Len(t, decoded.Spec.Containers, 1)
	assert.Equal(t, "nginx:1.27", decoded.Spec.Containers[0].Image)

	open := leaf.Open()
	assert.Equal(t, "web-0", open.Title)
	assert.Equal(t, leaf.YAML, open.Body)
}

func TestChildren_EachKindUsesItsCapability(t *testing.T) {
	mock := &domain.MockGateway{
		Pods:         map[string][]domain.Manifest{"apps": {{Name: "p"}}},
		Deployments:  map[string][]domain.Manifest{"apps": {{Name: "d1"}, {Name: "d2"}}},
		StatefulSets: map[string][]domain.Manifest{"apps": {{Name: "s"}}},
	}
	r := newTestResolver(mock)

	tests := []struct {
		kind string
		want []string
	}{
		{KindPod, []string{"p"}},
		{KindDeployment, []string{"d1", "d2"}},
		{KindStatefulSet, []string{"s"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			nodes, err := r.Children(context.Background(), ResourceTypeNode{Namespace: "apps", Kind: tt.kind})
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(nodes))
			for _, n := range nodes {
				leaf := n.(ObjectNode)
				assert.Equal(t, tt.kind, leaf.Kind)
				assert.Equal(t, "apps", leaf.Namespace)
				assert.Equal(t, tt.kind, leaf.Description())
			}
		})
	}
	assert.Equal(t, 1, mock.ListPodsCalls)
	assert.Equal(t, 1, mock.ListDeploymentsCalls)
	assert.Equal(t, 1, mock.ListStatefulSetsCalls)
}

func TestChildren_LeafNamespaceFollowsParent(t *testing.T) {
	// The manifest claims another namespace; the leaf belongs to its parent.
	mock := &domain.MockGateway{
		Deployments: map[string][]domain.Manifest{"default": {{Name: "api", Namespace: "elsewhere"}}},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindDeployment})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.Equal(t, "default", nodes[0].(ObjectNode).Namespace)
}

func TestChildren_ObjectWithoutNameFallsBack(t *testing.T) {
	mock := &domain.MockGateway{
		Pods: map[string][]domain.Manifest{"default": {{Name: "", JSON: []byte(`{"kind":"Pod"}`)}}},
	}
	nodes, err := newTestResolver(mock).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindPod})
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.Equal(t, "na", nodes[0].Label())
	assert.Equal(t, "kind: Pod\n", nodes[0].(ObjectNode).YAML)
}

func TestChildren_EmptyListing(t *testing.T) {
	nodes, err := newTestResolver(&domain.MockGateway{}).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindStatefulSet})
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
}

func TestChildren_UnknownKindIsEmptyAndLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	mock := &domain.MockGateway{}

	nodes, err := newTestResolver(mock, WithLogger(logger)).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: "V1Secret"})
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
	assert.Contains(t, buf.String(), "V1Secret")
	assert.Empty(t, mock.ListedNamespaces)
}

type foreignNode struct{ Root }

func (foreignNode) Tag() string { return "Mystery" }

func TestChildren_UnrecognizedNodeIsEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := newTestResolver(&domain.MockGateway{}, WithLogger(log.New(&buf)))

	nodes, err := r.Children(context.Background(), foreignNode{})
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Contains(t, buf.String(), "Mystery")
}

func TestChildren_LeafHasNoChildren(t *testing.T) {
	mock := &domain.MockGateway{}
	nodes, err := newTestResolver(mock).Children(context.Background(), ObjectNode{Name: "web-0", Kind: KindPod, Namespace: "default"})
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Empty(t, mock.ListedNamespaces)
}

func TestChildren_ListingErrorIsReturnedUnmodified(t *testing.T) {
	netErr := errors.New("dial tcp 10.0.0.1:6443: connect: network is unreachable")
	mock := &domain.MockGateway{ListDeploymentsErr: netErr}

	nodes, err := newTestResolver(mock).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindDeployment})
	assert.Nil(t, nodes)
	assert.Same(t, netErr, err)
}

func TestChildren_NamespaceErrorIsReturnedUnmodified(t *testing.T) {
	apiErr := &domain.APIError{Type: domain.ErrTokenExpired, Message: "expired"}
	mock := &domain.MockGateway{ListNamespacesErr: apiErr}

	_, err := newTestResolver(mock).Children(context.Background(), nil)
	assert.Same(t, apiErr, err)
}

func TestChildren_InvalidManifestJSON(t *testing.T) {
	mock := &domain.MockGateway{
		Pods: map[string][]domain.Manifest{"default": {{Name: "bad", JSON: []byte(`{not json`)}}},
	}
	_, err := newTestResolver(mock).Children(context.Background(), ResourceTypeNode{Namespace: "default", Kind: KindPod})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default/bad")
}

func TestChildren_Idempotent(t *testing.T) {
	mock := &domain.MockGateway{
		Namespaces: []domain.NamespaceInfo{{Name: "default"}},
		Pods:       map[string][]domain.Manifest{"default": {podManifest(t, "web-0", "default"), podManifest(t, "web-1", "default")}},
	}
	r := newTestResolver(mock)
	ctx := context.Background()

	for _, n := range []Node{nil, NamespaceNode{Namespace: "default"}, ResourceTypeNode{Namespace: "default", Kind: KindPod}} {
		first, err := r.Children(ctx, n)
		require.NoError(t, err)
		second, err := r.Children(ctx, n)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
	assert.Equal(t, 2, mock.ListNamespacesCalls, "every root expansion should re-fetch")
	assert.Equal(t, 2, mock.ListPodsCalls, "every resource-type expansion should re-fetch")
}

type deadlineRepo struct {
	domain.MockGateway
	sawDeadline bool
}

func (d *deadlineRepo) ListPods(ctx context.Context, _ string) ([]domain.Manifest, error) {
	_, d.sawDeadline = ctx.Deadline()
	return nil, nil
}

func TestChildren_TimeoutBoundsClusterCall(t *testing.T) {
	repo := &deadlineRepo{}
	node := ResourceTypeNode{Namespace: "default", Kind: KindPod}

	_, err := NewResolver(repo, DefaultKinds(repo)).Children(context.Background(), node)
	require.NoError(t, err)
	assert.False(t, repo.sawDeadline, "no deadline without a timeout")

	_, err = NewResolver(repo, DefaultKinds(repo), WithTimeout(time.Second)).Children(context.Background(), node)
	require.NoError(t, err)
	assert.True(t, repo.sawDeadline, "timeout should set a deadline")
}

func TestCustomKindSet(t *testing.T) {
	secrets := Kind{
		Label: "V1Secret",
		List: func(_ context.Context, namespace string) ([]domain.Manifest, error) {
			return []domain.Manifest{{Name: "token-" + namespace}}, nil
		},
	}
	r := NewResolver(&domain.MockGateway{}, NewKindSet(secrets))

	kinds, err := r.Children(context.Background(), NamespaceNode{Namespace: "default"})
	require.NoError(t, err)
	assert.Equal(t, []string{"V1Secret"}, labels(kinds))

	objects, err := r.Children(context.Background(), kinds[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"token-default"}, labels(objects))
}

func TestKindSet_KindsIsACopy(t *testing.T) {
	set := DefaultKinds(&domain.MockGateway{})
	kinds := set.Kinds()
	kinds[0].Label = "changed"

	assert.Equal(t, KindPod, set.Kinds()[0].Label)
	_, ok := set.Lookup("changed")
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{Root{}, ""},
		{NamespaceNode{Namespace: "default"}, "default"},
		{ResourceTypeNode{Namespace: "default", Kind: KindPod}, "default/V1Pod"},
		{ObjectNode{Namespace: "default", Kind: KindPod, Name: "web-0"}, "default/V1Pod/web-0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Path(tt.node))
	}
}
