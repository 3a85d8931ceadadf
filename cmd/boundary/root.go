package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/boundary/classify"
	"github.com/wippyai/boundary/internal/config"
	"github.com/wippyai/boundary/marshal"
	"github.com/wippyai/boundary/memory"
)

// RootOptions holds global flags and the state derived from them.
type RootOptions struct {
	ConfigPath  string
	LogLevel    string
	Format      string
	AnyFallback bool

	cfg       config.Config
	logger    *zap.Logger
	marshaler *marshal.Marshaler
}

// NewRootCommand creates the root command for the boundary CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "boundary",
		Short: "Inspect typed value marshaling across the native boundary",
		Long: `Classify values into tag sets, encode them with the most specific
conversion rule and decode native bytes back into values.

Values are given as YAML literals: 3.14, "text", [1, 2], {a: true}, null.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/boundary/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "byte format (hex|base64)")
	cmd.PersistentFlags().BoolVar(&opts.AnyFallback, "any-fallback", false, "classify unknown shapes as ANY")

	// Add subcommands
	cmd.AddCommand(NewClassifyCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewDescribeCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewInteractiveCommand(opts))

	return cmd
}

// setup loads config, applies flags that were set explicitly and builds the
// logger and marshaler.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.LogLevel
	}
	if flags.Changed("format") {
		cfg.Output.Format = o.Format
	}
	if flags.Changed("any-fallback") {
		cfg.Classify.AnyFallback = o.AnyFallback
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	marshal.SetLogger(logger)
	memory.SetLogger(logger)

	o.cfg = cfg
	o.logger = logger
	o.marshaler = newMarshaler(cfg, logger)
	return nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Log.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func newMarshaler(cfg config.Config, logger *zap.Logger) *marshal.Marshaler {
	var copts []classify.Option
	if cfg.Classify.AnyFallback {
		copts = append(copts, classify.WithAnyFallback())
	}
	return marshal.New(
		marshal.WithClassifier(classify.New(copts...)),
		marshal.WithLogger(logger),
		marshal.WithMaxDepth(cfg.Classify.MaxDepth),
	)
}

// Marshaler returns the marshaler built from config, or the default one
// when commands run without the root pre-run.
func (o *RootOptions) Marshaler() *marshal.Marshaler {
	if o.marshaler == nil {
		return marshal.Default()
	}
	return o.marshaler
}

// ByteFormat returns the configured byte format, defaulting to hex.
func (o *RootOptions) ByteFormat() string {
	if o.cfg.Output.Format != "" {
		return o.cfg.Output.Format
	}
	if o.Format != "" {
		return o.Format
	}
	return "hex"
}
