// Package tree resolves the children of a node in the namespace / kind /
// object tree. Every call goes to the cluster; nothing is cached.
package tree

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"sigs.k8s.io/yaml"

	"github.com/Taishi66/kube-tree/internal/domain"
)

const defaultConcurrency = 3

// Resolver lists the children of tree nodes.
type Resolver struct {
	namespaces  domain.NamespaceRepository
	kinds       KindSet
	logger      *log.Logger
	timeout     time.Duration
	concurrency int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTimeout bounds each cluster call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// WithConcurrency sets how many sibling listings Walk runs at once.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewResolver creates a resolver over the given cluster capabilities.
func NewResolver(namespaces domain.NamespaceRepository, kinds KindSet, opts ...Option) *Resolver {
	r := &Resolver{
		namespaces:  namespaces,
		kinds:       kinds,
		logger:      log.New(io.Discard),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Children returns the children of n. A nil node means the root.
//
// Listing errors are returned as-is. Nodes the resolver has no rule for
// yield an empty slice and a warning in the log.
func (r *Resolver) Children(ctx context.Context, n Node) ([]Node, error) {
	switch n := n.(type) {
	case nil, Root:
		return r.namespaceNodes(ctx)
	case NamespaceNode:
		return r.kindNodes(n.Namespace), nil
	case ResourceTypeNode:
		kind, ok := r.kinds.Lookup(n.Kind)
		if !ok {
			r.logger.Warn("no listing for resource type", "kind", n.Kind, "namespace", n.Namespace)
			return []Node{}, nil
		}
		return r.objectNodes(ctx, n.Namespace, kind)
	case ObjectNode:
		return []Node{}, nil
	default:
		r.logger.Warn("unrecognized tree node", "tag", n.Tag(), "label", n.Label())
		return []Node{}, nil
	}
}

func (r *Resolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r *Resolver) namespaceNodes(ctx context.Context) ([]Node, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	r.logger.Debug("listing namespaces")
	nss, err := r.namespaces.ListNamespaces(callCtx)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(nss))
	for _, ns := range nss {
		nodes = append(nodes, NamespaceNode{
			Namespace: nameOrFallback(ns.Name),
			Status:    ns.Status,
			Age:       ns.Age,
		})
	}
	return nodes, nil
}

func (r *Resolver) kindNodes(namespace string) []Node {
	kinds := r.kinds.Kinds()
	nodes := make([]Node, 0, len(kinds))
	for _, k := range kinds {
		nodes = append(nodes, ResourceTypeNode{Namespace: namespace, Kind: k.Label})
	}
	return nodes
}

func (r *Resolver) objectNodes(ctx context.Context, namespace string, kind Kind) ([]Node, error) {
	callCtx, cancel := r.callContext(ctx)
	defer cancel()

	r.logger.Debug("listing objects", "kind", kind.Label, "namespace", namespace)
	manifests, err := kind.List(callCtx, namespace)
	if err != nil {
		return nil, err
	}

	nodes := make([]Node, 0, len(manifests))
	for _, m := range manifests {
		name := nameOrFallback(m.Name)
		body, err := renderYAML(m.JSON)
		if err != nil {
			return nil, fmt.Errorf("rendering %s %s/%s: %w", kind.Label, namespace, name, err)
		}
		nodes = append(nodes, ObjectNode{
			Name:      name,
			Kind:      kind.Label,
			Namespace: namespace,
			YAML:      body,
		})
	}
	return nodes, nil
}

// renderYAML decodes the JSON document and re-encodes it as YAML, dropping
// anything that is not plain data.
func renderYAML(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func nameOrFallback(name string) string {
	if name == "" {
		return NameFallback
	}
	return name
}
