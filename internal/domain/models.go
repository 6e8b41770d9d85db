package domain

// NamespaceInfo represents a Kubernetes namespace as returned by the cluster.
// Name is empty when the cluster returned no metadata name.
type NamespaceInfo struct {
	Name   string
	Status string
	Age    string
}

// Manifest is a snapshot of one namespaced cluster object.
// JSON holds the object's full JSON representation, apiVersion and kind included.
type Manifest struct {
	Name      string
	Namespace string
	Kind      string
	JSON      []byte
}
