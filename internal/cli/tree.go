package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Taishi66/kube-tree/internal/tree"
)

const maxDepth = 3

type treeOptions struct {
	depth int
	quiet bool
}

func newTreeCmd(root *rootOptions) *cobra.Command {
	opts := &treeOptions{}

	cmd := &cobra.Command{
		Use:   "tree [namespace...]",
		Short: "Print the resource tree",
		Long: `Print the namespace / kind / object tree to stdout.

With no arguments every namespace of the cluster is printed. Naming
namespaces restricts the output to them. --depth controls how many levels
are expanded: 1 for namespaces, 2 adds kinds, 3 adds objects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(cmd, root, opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.depth, "depth", "d", maxDepth, "levels to expand (1-3)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress progress indicators and log messages")
	return cmd
}

func runTree(cmd *cobra.Command, root *rootOptions, opts *treeOptions, args []string) error {
	if opts.depth < 1 || opts.depth > maxDepth {
		return fmt.Errorf("--depth must be between 1 and %d, got %d", maxDepth, opts.depth)
	}

	cfg, logger, closeLog, err := root.setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	// Quiet mode keeps warnings and errors
	if opts.quiet {
		logger.SetLevel(log.WarnLevel)
	}

	gw, err := newGateway(clientOptions(cfg))
	if err != nil {
		return err
	}
	resolver := newResolver(gw, cfg, logger)

	var roots []tree.Node
	if len(args) > 0 {
		roots = make([]tree.Node, 0, len(args))
		for _, ns := range args {
			roots = append(roots, tree.NamespaceNode{Namespace: ns})
		}
	}

	branches, err := walkWithSpinner(cmd.Context(), resolver, roots, opts.depth, opts.quiet)
	if err != nil {
		return err
	}
	logger.Debug("tree walked", "roots", len(branches), "depth", opts.depth)
	return printTree(cmd.OutOrStdout(), branches, 0)
}

func walkWithSpinner(ctx context.Context, r *tree.Resolver, roots []tree.Node, depth int, quiet bool) ([]tree.Branch, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var branches []tree.Branch
	var walkErr error

	if quiet {
		branches, walkErr = r.Walk(ctx, roots, depth)
		return branches, walkErr
	}

	spinnerErr := spinner.New().
		Title("Fetching cluster tree...").
		Action(func() {
			branches, walkErr = r.Walk(ctx, roots, depth)
		}).
		Run()

	if spinnerErr != nil {
		return nil, spinnerErr
	}
	return branches, walkErr
}

func printTree(w io.Writer, branches []tree.Branch, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, b := range branches {
		if _, err := fmt.Fprintf(w, "%s%s (%s)\n", indent, b.Node.Label(), b.Node.Description()); err != nil {
			return err
		}
		if err := printTree(w, b.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
