package tui

import (
	"fmt"
	"strings"

	"github.com/Taishi66/kube-tree/internal/config"
	"github.com/Taishi66/kube-tree/internal/tree"
)

// treeItem is the UI state of one node. Children only exist while the
// item is expanded.
type treeItem struct {
	node     tree.Node
	depth    int
	expanded bool
	loading  bool
	failed   bool
	children []*treeItem
	// req numbers the children requests issued for this item. Only the
	// reply to the latest one is applied.
	req int
}

func newRootItem() *treeItem {
	return &treeItem{node: tree.Root{}, depth: -1}
}

func (it *treeItem) setChildren(nodes []tree.Node) {
	it.loading = false
	it.failed = false
	it.children = make([]*treeItem, 0, len(nodes))
	for _, n := range nodes {
		it.children = append(it.children, &treeItem{node: n, depth: it.depth + 1})
	}
}

// awaits reports whether it is still loading the children of request req.
// A nil item awaits nothing.
func (it *treeItem) awaits(req int) bool {
	return it != nil && it.loading && it.req == req
}

func (it *treeItem) collapse() {
	it.expanded = false
	it.loading = false
	it.children = nil
}

func (it *treeItem) fail() {
	it.collapse()
	it.failed = true
}

// find returns the expanded descendant whose path is path, or nil.
func (it *treeItem) find(path string) *treeItem {
	if tree.Path(it.node) == path {
		return it
	}
	for _, c := range it.children {
		p := tree.Path(c.node)
		if p == path {
			return c
		}
		if strings.HasPrefix(path, p+"/") {
			return c.find(path)
		}
	}
	return nil
}

func (it *treeItem) appendVisible(rows []*treeItem) []*treeItem {
	rows = append(rows, it)
	if !it.expanded {
		return rows
	}
	for _, c := range it.children {
		rows = c.appendVisible(rows)
	}
	return rows
}

func (it *treeItem) marker() string {
	switch {
	case it.failed:
		return failedStyle.Render("!")
	case !it.node.Expandable():
		return "•"
	case it.loading:
		return "…"
	case it.expanded:
		return "▾"
	default:
		return "▸"
	}
}

func renderTreeView(rows []*treeItem, cursor, width, viewHeight int, cfg *config.AppConfig) string {
	if len(rows) == 0 {
		return "  Aucun namespace trouvé\n"
	}

	var b strings.Builder

	// Header
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-60s %s", "NOM", "TYPE")))
	b.WriteString("\n")

	start := 0
	if cursor >= viewHeight {
		start = cursor - viewHeight + 1
	}
	end := min(start+viewHeight, len(rows))

	for i := start; i < end; i++ {
		it := rows[i]
		indent := strings.Repeat("  ", it.depth)
		label := truncate(it.node.Label(), max(width-30-len(indent), 10))
		line := fmt.Sprintf("  %s%s %s", indent, it.marker(), styleLabel(it, label, cfg))
		line += "  " + descriptionStyle.Render(it.node.Description())
		if info := namespaceInfo(it.node); info != "" {
			line += descriptionStyle.Render("  " + info)
		}
		if it.loading {
			line += descriptionStyle.Render("  chargement...")
		}

		if i == cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// namespaceInfo returns "Active · 3d" for namespace rows, or whichever
// half is known.
func namespaceInfo(n tree.Node) string {
	ns, ok := n.(tree.NamespaceNode)
	if !ok {
		return ""
	}
	parts := make([]string, 0, 2)
	if ns.Status != "" {
		parts = append(parts, ns.Status)
	}
	if ns.Age != "" {
		parts = append(parts, ns.Age)
	}
	return strings.Join(parts, " · ")
}

func styleLabel(it *treeItem, label string, cfg *config.AppConfig) string {
	ns, ok := it.node.(tree.NamespaceNode)
	if !ok {
		if _, isType := it.node.(tree.ResourceTypeNode); isType {
			return kindStyle.Render(label)
		}
		return label
	}
	if cfg == nil {
		return namespaceStyle.Render(label)
	}
	switch {
	case config.IsProdNamespace(ns.Namespace, cfg.ProdPatterns):
		return prodNamespaceStyle.Render(label + " [PROD]")
	case config.IsSystemNamespace(ns.Namespace, cfg.SystemNamespaces):
		return systemNamespaceStyle.Render(label)
	default:
		return namespaceStyle.Render(label)
	}
}

func treeHelpKeys() string {
	return "j/k:nav  enter/l:ouvrir  h:replier  /:filtre  r:refresh  c:copier  o:pager  q:quitter"
}
