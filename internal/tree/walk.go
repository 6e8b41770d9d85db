package tree

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Branch is a node together with its resolved children.
type Branch struct {
	Node     Node
	Children []Branch
}

// Walk resolves roots and their descendants down to depth levels, depth 1
// being roots alone. A nil roots slice starts from the cluster namespaces.
//
// Nodes of the same level are expanded concurrently, bounded by the
// resolver's concurrency. Child order matches Children. The first listing
// error cancels the walk and is returned as-is.
func (r *Resolver) Walk(ctx context.Context, roots []Node, depth int) ([]Branch, error) {
	if depth < 1 {
		return []Branch{}, nil
	}
	if roots == nil {
		var err error
		roots, err = r.Children(ctx, Root{})
		if err != nil {
			return nil, err
		}
	}

	branches := make([]Branch, len(roots))
	level := make([]*Branch, len(roots))
	for i, n := range roots {
		branches[i] = Branch{Node: n}
		level[i] = &branches[i]
	}

	for d := 1; d < depth && len(level) > 0; d++ {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)
		for _, b := range level {
			if !b.Node.Expandable() {
				continue
			}
			g.Go(func() error {
				children, err := r.Children(gctx, b.Node)
				if err != nil {
					return err
				}
				b.Children = make([]Branch, len(children))
				for i, c := range children {
					b.Children[i] = Branch{Node: c}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []*Branch
		for _, b := range level {
			for i := range b.Children {
				next = append(next, &b.Children[i])
			}
		}
		level = next
	}
	return branches, nil
}
