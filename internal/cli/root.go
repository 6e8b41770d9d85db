// Package cli wires the kubetree commands: the interactive browser and the
// non-interactive tree and get commands.
package cli

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Taishi66/kube-tree/internal/config"
	"github.com/Taishi66/kube-tree/internal/domain"
	"github.com/Taishi66/kube-tree/internal/k8s"
	"github.com/Taishi66/kube-tree/internal/logging"
	"github.com/Taishi66/kube-tree/internal/tree"
	"github.com/Taishi66/kube-tree/internal/tui"
)

type rootOptions struct {
	configPath string
	kubeconfig string
	context    string
	timeout    time.Duration
	logLevel   string
	logFile    string
}

// newGateway builds the cluster gateway. Tests replace it.
var newGateway = func(opts k8s.Options) (domain.KubeGateway, error) {
	return k8s.NewClient(opts)
}

// runProgram runs the TUI. Tests replace it.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// NewRootCmd returns the kubetree command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kubetree",
		Short: "Browse a Kubernetes cluster as a namespace / kind / object tree",
		Long: `kubetree shows the namespaces of the current cluster as a tree. Each
namespace expands into the resource kinds it can hold, each kind into the
objects of that kind, and each object opens as its YAML manifest.

Without a subcommand kubetree starts the interactive browser.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	cmd.SetVersionTemplate(`{{printf "kubetree %s\n" .Version}}`)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/kubetree/config.yaml)")
	flags.StringVar(&opts.kubeconfig, "kubeconfig", "", "path to kubeconfig (default: $KUBECONFIG or ~/.kube/config)")
	flags.StringVar(&opts.context, "context", "", "kubeconfig context to use (default: current-context)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "timeout for each cluster request (default: 10s)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")

	cmd.AddCommand(newTreeCmd(opts))
	cmd.AddCommand(newGetCmd(opts))
	return cmd
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if o.configPath == "" {
		cfg, err = config.LoadConfig()
	} else {
		cfg, err = config.LoadConfigFrom(o.configPath)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("kubeconfig") {
		cfg.Kubeconfig = o.kubeconfig
	}
	if flags.Changed("context") {
		cfg.Context = o.context
	}
	if flags.Changed("timeout") && o.timeout > 0 {
		cfg.RequestTimeout = o.timeout
	}
	if flags.Changed("log-level") && o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = o.logFile
	}
	return cfg, nil
}

func clientOptions(cfg *config.AppConfig) k8s.Options {
	return k8s.Options{
		Kubeconfig:         cfg.Kubeconfig,
		Context:            cfg.Context,
		Timeout:            cfg.RequestTimeout,
		StripManagedFields: cfg.StripManagedFields,
	}
}

func newResolver(gw domain.KubeGateway, cfg *config.AppConfig, logger *log.Logger) *tree.Resolver {
	return tree.NewResolver(gw, tree.DefaultKinds(gw),
		tree.WithLogger(logger),
		tree.WithTimeout(cfg.RequestTimeout),
		tree.WithConcurrency(cfg.Concurrency),
	)
}

// setup loads config, silences klog and opens the logger. Logs go to
// fallback unless a log file is configured.
func (o *rootOptions) setup(cmd *cobra.Command, fallback io.Writer) (*config.AppConfig, *log.Logger, func() error, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	logging.SilenceKlog()

	logger, closeLog, err := logging.Open(cfg.Log, fallback)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	// The screen belongs to bubbletea: without a log file, logs are dropped.
	cfg, logger, closeLog, err := opts.setup(cmd, io.Discard)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	factory := func() (domain.KubeGateway, error) {
		return newGateway(clientOptions(cfg))
	}

	var m tui.Model
	gw, err := factory()
	if err != nil {
		// Client creation failed, launch the TUI in error mode
		logger.Error("creating cluster client", "err", err)
		m = tui.NewModelWithError(err, factory, cfg, logger)
	} else {
		logger.Info("connected", "context", gw.GetContext(), "server", gw.GetServerURL())
		m = tui.NewModel(gw, factory, cfg, logger)
	}
	return runProgram(m)
}
