package tree

import (
	"context"

	"github.com/Taishi66/kube-tree/internal/domain"
)

// Labels of the built-in resource kinds.
const (
	KindPod         = "V1Pod"
	KindDeployment  = "V1Deployment"
	KindStatefulSet = "V1StatefulSet"
)

// ListFunc lists the objects of one kind in a namespace.
type ListFunc func(ctx context.Context, namespace string) ([]domain.Manifest, error)

// Kind binds a kind label to its listing capability.
type Kind struct {
	Label string
	List  ListFunc
}

// KindSet is the fixed table of resource kinds shown under every namespace.
type KindSet interface {
	// Kinds returns the kinds in declaration order.
	Kinds() []Kind
	Lookup(label string) (Kind, bool)
}

type staticKinds []Kind

// NewKindSet returns a KindSet holding kinds in the given order.
func NewKindSet(kinds ...Kind) KindSet {
	return staticKinds(append([]Kind(nil), kinds...))
}

// DefaultKinds returns Pod, Deployment and StatefulSet backed by repo.
func DefaultKinds(repo domain.ObjectRepository) KindSet {
	return NewKindSet(
		Kind{Label: KindPod, List: repo.ListPods},
		Kind{Label: KindDeployment, List: repo.ListDeployments},
		Kind{Label: KindStatefulSet, List: repo.ListStatefulSets},
	)
}

func (s staticKinds) Kinds() []Kind {
	return append([]Kind(nil), s...)
}

func (s staticKinds) Lookup(label string) (Kind, bool) {
	for _, k := range s {
		if k.Label == label {
			return k, true
		}
	}
	return Kind{}, false
}
