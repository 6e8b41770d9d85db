package domain

import "context"

// ClusterInfo provides metadata about the current cluster connection.
type ClusterInfo interface {
	GetContext() string
	GetServerURL() string
	Reconnect() error
}

// NamespaceRepository lists the cluster namespaces.
type NamespaceRepository interface {
	ListNamespaces(ctx context.Context) ([]NamespaceInfo, error)
}

// ObjectRepository lists the namespaced objects the tree knows how to display.
// Each call returns the complete listing for the namespace, following
// continue tokens when the server pages the results.
type ObjectRepository interface {
	ListPods(ctx context.Context, namespace string) ([]Manifest, error)
	ListDeployments(ctx context.Context, namespace string) ([]Manifest, error)
	ListStatefulSets(ctx context.Context, namespace string) ([]Manifest, error)
}

// KubeGateway is the primary port combining all cluster operations.
// The presentation layers depend on this interface, not on concrete implementations.
type KubeGateway interface {
	ClusterInfo
	NamespaceRepository
	ObjectRepository
}
