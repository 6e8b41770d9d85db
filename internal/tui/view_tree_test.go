package tui

import (
	"strings"
	"testing"

	"github.com/Taishi66/kube-tree/internal/config"
	"github.com/Taishi66/kube-tree/internal/tree"
)

func sampleTree() *treeItem {
	root := newRootItem()
	root.expanded = true
	root.setChildren([]tree.Node{
		tree.NamespaceNode{Namespace: "default"},
		tree.NamespaceNode{Namespace: "default-2"},
	})
	ns := root.children[0]
	ns.expanded = true
	ns.setChildren([]tree.Node{
		tree.ResourceTypeNode{Namespace: "default", Kind: tree.KindPod},
	})
	pods := ns.children[0]
	pods.expanded = true
	pods.setChildren([]tree.Node{
		tree.ObjectNode{Namespace: "default", Kind: tree.KindPod, Name: "web-1"},
	})
	return root
}

func TestTreeItemFind(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"default", "default"},
		{"default-2", "default-2"},
		{"default/V1Pod", tree.KindPod},
		{"default/V1Pod/web-1", "web-1"},
	}
	for _, tt := range tests {
		it := root.find(tt.path)
		if it == nil {
			t.Errorf("find(%q) = nil", tt.path)
			continue
		}
		if it.node.Label() != tt.want {
			t.Errorf("find(%q) = %q, want %q", tt.path, it.node.Label(), tt.want)
		}
	}

	if root.find("default/V1Deployment") != nil {
		t.Error("find should not return unloaded nodes")
	}
}

func TestTreeItemDepth(t *testing.T) {
	root := sampleTree()
	if d := root.find("default/V1Pod/web-1").depth; d != 2 {
		t.Errorf("object depth = %d, want 2", d)
	}
}

func TestTreeItemFail(t *testing.T) {
	root := sampleTree()
	ns := root.children[0]
	ns.fail()

	if ns.expanded || ns.children != nil || !ns.failed {
		t.Errorf("after fail: expanded=%v children=%v failed=%v", ns.expanded, ns.children, ns.failed)
	}
	if ns.marker() == "▸" {
		t.Error("failed item should show the error marker")
	}
}

func TestTreeItemMarker(t *testing.T) {
	it := &treeItem{node: tree.NamespaceNode{Namespace: "a"}}
	if it.marker() != "▸" {
		t.Errorf("collapsed marker = %q", it.marker())
	}
	it.expanded = true
	if it.marker() != "▾" {
		t.Errorf("expanded marker = %q", it.marker())
	}
	it.loading = true
	if it.marker() != "…" {
		t.Errorf("loading marker = %q", it.marker())
	}
	leaf := &treeItem{node: tree.ObjectNode{Name: "x"}}
	if leaf.marker() != "•" {
		t.Errorf("leaf marker = %q", leaf.marker())
	}
}

func TestRenderTreeView(t *testing.T) {
	root := sampleTree()
	var rows []*treeItem
	for _, c := range root.children {
		rows = c.appendVisible(rows)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}

	out := renderTreeView(rows, 0, 120, 20, config.DefaultConfig())
	for _, want := range []string{"NOM", "default", "V1Pod", "web-1", "Type", "NS"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree view missing %q", want)
		}
	}
}

func TestRenderTreeViewNamespaceInfo(t *testing.T) {
	rows := []*treeItem{
		{node: tree.NamespaceNode{Namespace: "default", Status: "Active", Age: "12d"}},
		{node: tree.NamespaceNode{Namespace: "bare"}},
		{node: tree.ResourceTypeNode{Namespace: "default", Kind: tree.KindPod}, depth: 1},
	}

	out := renderTreeView(rows, 0, 120, 10, nil)
	if !strings.Contains(out, "Active · 12d") {
		t.Errorf("namespace row should show status and age, got %q", out)
	}
	if strings.Count(out, " · ") != 1 {
		t.Errorf("only the populated namespace row should carry secondary info, got %q", out)
	}
}

func TestNamespaceInfo(t *testing.T) {
	tests := []struct {
		node tree.Node
		want string
	}{
		{tree.NamespaceNode{Namespace: "a", Status: "Active", Age: "2h"}, "Active · 2h"},
		{tree.NamespaceNode{Namespace: "a", Status: "Terminating"}, "Terminating"},
		{tree.NamespaceNode{Namespace: "a", Age: "5m"}, "5m"},
		{tree.NamespaceNode{Namespace: "a"}, ""},
		{tree.ObjectNode{Namespace: "a", Kind: tree.KindPod, Name: "web"}, ""},
	}
	for _, tt := range tests {
		if got := namespaceInfo(tt.node); got != tt.want {
			t.Errorf("namespaceInfo(%s) = %q, want %q", tree.Path(tt.node), got, tt.want)
		}
	}
}

func TestRenderTreeViewEmpty(t *testing.T) {
	out := renderTreeView(nil, 0, 80, 10, nil)
	if !strings.Contains(out, "Aucun namespace") {
		t.Errorf("output = %q", out)
	}
}

func TestRenderTreeViewScrollsToCursor(t *testing.T) {
	var rows []*treeItem
	for i := 0; i < 50; i++ {
		rows = append(rows, &treeItem{node: tree.NamespaceNode{Namespace: "ns-" + strings.Repeat("x", i%3) + string(rune('a'+i%26))}})
	}
	rows[49] = &treeItem{node: tree.NamespaceNode{Namespace: "last-one"}}

	out := renderTreeView(rows, 49, 120, 10, nil)
	if !strings.Contains(out, "last-one") {
		t.Error("cursor row should be visible")
	}
	if strings.Count(out, "\n") != 11 {
		t.Errorf("lines = %d, want header + 10 rows", strings.Count(out, "\n"))
	}
}
