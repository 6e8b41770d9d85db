package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Taishi66/kube-tree/internal/tree"
)

func newGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <namespace> <kind> [name]",
		Short: "Print the YAML manifest of objects",
		Long: `Print the YAML manifests of the objects of a kind in a namespace.

The kind is one of the tree's resource types (V1Pod, V1Deployment,
V1StatefulSet). The short forms pod, deployment and statefulset, with or
without a trailing s, are accepted. With a name only that object is printed.`,
		Example: `  kubetree get default pods
  kubetree get prod-api V1Deployment api`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			return runGet(cmd, root, args[0], args[1], name)
		},
	}
}

func runGet(cmd *cobra.Command, root *rootOptions, namespace, kindArg, name string) error {
	cfg, logger, closeLog, err := root.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	gw, err := newGateway(clientOptions(cfg))
	if err != nil {
		return err
	}

	kinds := tree.DefaultKinds(gw)
	kind, ok := matchKind(kinds, kindArg)
	if !ok {
		return fmt.Errorf("unknown kind %q (available: %s)", kindArg, strings.Join(kindLabels(kinds), ", "))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resolver := newResolver(gw, cfg, logger)
	nodes, err := resolver.Children(ctx, tree.ResourceTypeNode{Namespace: namespace, Kind: kind})
	if err != nil {
		return err
	}

	var docs []tree.OpenAction
	for _, n := range nodes {
		obj, ok := n.(tree.ObjectNode)
		if !ok || (name != "" && obj.Name != name) {
			continue
		}
		docs = append(docs, obj.Open())
	}

	if name != "" && len(docs) == 0 {
		return fmt.Errorf("%s %q not found in namespace %q", kind, name, namespace)
	}
	logger.Debug("printing manifests", "kind", kind, "namespace", namespace, "count", len(docs))
	return writeDocuments(cmd.OutOrStdout(), docs)
}

// matchKind resolves a kind argument against the tree's kind labels.
func matchKind(kinds tree.KindSet, arg string) (string, bool) {
	for _, k := range kinds.Kinds() {
		short := strings.TrimPrefix(k.Label, "V1")
		if strings.EqualFold(arg, k.Label) || strings.EqualFold(arg, short) || strings.EqualFold(arg, short+"s") {
			return k.Label, true
		}
	}
	return "", false
}

func kindLabels(kinds tree.KindSet) []string {
	var out []string
	for _, k := range kinds.Kinds() {
		out = append(out, k.Label)
	}
	return out
}

// writeDocuments prints the manifests as a multi-document YAML stream.
func writeDocuments(w io.Writer, docs []tree.OpenAction) error {
	for i, d := range docs {
		if i > 0 {
			if _, err := io.WriteString(w, "---\n"); err != nil {
				return err
			}
		}
		body := d.Body
		if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		if _, err := io.WriteString(w, body); err != nil {
			return err
		}
	}
	return nil
}
