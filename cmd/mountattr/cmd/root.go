// Package cmd implements the mountattr command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/mountattr/internal/logger"
	"github.com/marmos91/mountattr/pkg/config"
	"github.com/marmos91/mountattr/pkg/metrics"
	"github.com/marmos91/mountattr/pkg/mounttable"
	"github.com/marmos91/mountattr/pkg/resolver"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	verbose    int
	index      string
	mounts     string
	hostname   string

	cfg      *config.Config
	closeLog func() error
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mountattr",
		Short: "Resolve paths to mount points and classify them as local or remote",
		Long: `mountattr maps absolute paths to the mount table entry that serves them,
decides whether the backing filesystem is local or remote (following AUFS
union branches), and builds a globally comparable URI for the file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closeLog != nil {
				return opts.closeLog()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/mountattr/config.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase diagnostic verbosity (repeatable)")
	flags.StringVar(&opts.index, "index", "", "prefix index (trie, truncate)")
	flags.StringVar(&opts.hostname, "hostname", "", "canonical hostname to use for local files instead of detecting it")
	flags.StringVar(&opts.mounts, "mounts", "", "read the mount table from this mntent file instead of the configured sources")

	root.AddCommand(
		newTableCmd(opts),
		newEntryCmd(opts),
		newClassifyCmd(opts),
		newURICmd(opts),
		newWalkCmd(opts),
		newCheckCmd(opts),
		newServeCmd(opts),
		newInitCmd(),
	)

	return root
}

// setup loads configuration, applies flag overrides and configures logging.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.verbose > 0 {
		cfg.Logging.Verbosity = o.verbose
	}
	if o.index != "" {
		cfg.Resolver.Index = o.index
	}
	if o.mounts != "" {
		cfg.MountTable.Primary = config.SourceConfig{Type: "mntent", Options: map[string]any{"path": o.mounts}}
		cfg.MountTable.Fallback = config.SourceConfig{Type: "none"}
	}
	if o.hostname != "" {
		cfg.Hostname.Override = o.hostname
	}
	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	w, closer, err := logger.OpenOutput(cfg.Logging.Output)
	if err != nil {
		return fmt.Errorf("failed to open log output: %w", err)
	}
	logger.SetOutput(w)
	logger.SetFormat(cfg.Logging.Format)
	logger.SetLevel(cfg.Logging.Level)
	logger.SetVerbosity(cfg.Logging.Verbosity)

	o.cfg = cfg
	o.closeLog = closer
	return nil
}

// runtime is a loaded table plus a resolver over it.
type runtime struct {
	holder   *mounttable.Holder
	loader   *mounttable.Loader
	resolver *resolver.Resolver
}

func (o *rootOptions) load(ctx context.Context, m metrics.ResolverMetrics) (*runtime, error) {
	loader, err := config.CreateLoader(o.cfg, m)
	if err != nil {
		return nil, err
	}

	holder := mounttable.NewHolder(nil)
	if _, err := holder.Reload(ctx, loader); err != nil {
		return nil, err
	}

	r, err := config.CreateResolver(o.cfg, holder, m)
	if err != nil {
		return nil, err
	}

	return &runtime{holder: holder, loader: loader, resolver: r}, nil
}
