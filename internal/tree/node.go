package tree

// Dispatch tags and display constants.
const (
	TagRoot      = "Root"
	TagNamespace = "Namespace"
	TagObject    = "Object"

	// NameFallback replaces a metadata name the cluster did not return.
	// It is not unique: several objects can share it.
	NameFallback = "na"
)

// Node is one item of the resource tree. The set of implementations is
// closed: Root, NamespaceNode, ResourceTypeNode and ObjectNode.
type Node interface {
	// Label is the display name.
	Label() string
	// Tag drives dispatch on the next expansion.
	Tag() string
	// Description is the short secondary text shown next to the label.
	Description() string
	Expandable() bool

	node()
}

// Root stands for "no node": its children are the cluster namespaces.
type Root struct{}

func (Root) Label() string       { return "" }
func (Root) Tag() string         { return TagRoot }
func (Root) Description() string { return "" }
func (Root) Expandable() bool    { return true }
func (Root) node()               {}

// NamespaceNode is a cluster namespace. Status and Age are informational
// and empty when the node was built from a name alone.
type NamespaceNode struct {
	Namespace string
	Status    string
	Age       string
}

func (n NamespaceNode) Label() string     { return n.Namespace }
func (NamespaceNode) Tag() string         { return TagNamespace }
func (NamespaceNode) Description() string { return "NS" }
func (NamespaceNode) Expandable() bool    { return true }
func (NamespaceNode) node()               {}

// ResourceTypeNode is one resource kind scoped to a namespace.
type ResourceTypeNode struct {
	Namespace string
	Kind      string
}

func (n ResourceTypeNode) Label() string     { return n.Kind }
func (n ResourceTypeNode) Tag() string       { return n.Kind }
func (ResourceTypeNode) Description() string { return "Type" }
func (ResourceTypeNode) Expandable() bool    { return true }
func (ResourceTypeNode) node()               {}

// ObjectNode is a concrete cluster object and the only leaf of the tree.
type ObjectNode struct {
	Name      string
	Kind      string
	Namespace string
	YAML      string
}

func (n ObjectNode) Label() string       { return n.Name }
func (ObjectNode) Tag() string           { return TagObject }
func (n ObjectNode) Description() string { return n.Kind }
func (ObjectNode) Expandable() bool      { return false }
func (ObjectNode) node()                 {}

// OpenAction is what a presentation layer needs to show an object as a
// read-only document.
type OpenAction struct {
	Title string
	Body  string
}

// Open returns the document action for the object.
func (n ObjectNode) Open() OpenAction {
	return OpenAction{Title: n.Name, Body: n.YAML}
}

// Path returns a slash separated identifier of the node within the tree.
func Path(n Node) string {
	switch n := n.(type) {
	case NamespaceNode:
		return n.Namespace
	case ResourceTypeNode:
		return n.Namespace + "/" + n.Kind
	case ObjectNode:
		return n.Namespace + "/" + n.Kind + "/" + n.Name
	default:
		return ""
	}
}
