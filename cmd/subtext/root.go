package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is injected at build time via -ldflags
var Version = "dev"

var debug bool

// NewRootCommand creates the root command and wires the subcommands.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtext",
		Short: "Covert-channel experiment harness for generated instruction texts",
		Long: `Subtext measures whether a generated instruction text can carry a hidden
label recoverable by one evaluator (the receiver) but not by an independent
one (the monitor), when both see only the text and a shared question set.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newTrialCommand())

	return cmd
}

// newLogger builds the process logger; --debug flips the level.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
