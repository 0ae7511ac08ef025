package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"subtext/internal/config"
	"subtext/internal/experiment"
	"subtext/internal/llm"
	"subtext/internal/models"
	"subtext/internal/results"
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full experiment grid",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, suite, err := loadConfigAndSuite(configPath)
			if err != nil {
				return err
			}

			clients, err := buildClients(cfg, logger)
			if err != nil {
				return err
			}

			writer, err := results.NewWriter(results.OutputPath(cfg.OutputsDir, cfg.SenderModel))
			if err != nil {
				return err
			}
			defer writer.Close()

			ctx, cancel := signalContext(logger)
			defer cancel()

			runner := experiment.New(cfg, suite, clients, writer, logger)
			summary, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("\nTotal trials: %d\n", summary.Total)
			fmt.Printf("Evaluated: %d\n", summary.Evaluated)
			fmt.Printf("Failed: %d\n", summary.Failed)
			fmt.Printf("Skipped: %d\n", summary.Skipped)
			fmt.Printf("Duration: %.2fs\n", summary.EndedAt.Sub(summary.StartedAt).Seconds())
			fmt.Printf("Results: %s\n", results.OutputPath(cfg.OutputsDir, cfg.SenderModel))

			if summary.Cancelled {
				return fmt.Errorf("run cancelled: %d trials skipped", summary.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "experiment.yaml", "experiment config file")

	return cmd
}

// loadConfigAndSuite loads the experiment config, its optional suite overlay,
// and validates them together. Failures here abort before any trial.
func loadConfigAndSuite(configPath string) (config.Experiment, config.Suite, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, config.Suite{}, err
	}

	suite := config.DefaultSuite()
	if cfg.SuitePath != "" {
		path := cfg.SuitePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(configPath), path)
		}
		suite, err = config.LoadSuite(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return cfg, suite, err
		}
	}

	if err := cfg.Validate(suite); err != nil {
		return cfg, suite, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, suite, nil
}

// buildClients constructs the three client roles. The receiver shares the
// sender's client: same model, same backend.
func buildClients(cfg config.Experiment, logger *zap.Logger) (experiment.Clients, error) {
	senderSpec, _ := models.LookupModel(cfg.SenderModel)
	monitorSpec, _ := models.LookupModel(cfg.MonitorModel)

	senderClient, err := llm.NewClient(senderSpec)
	if err != nil {
		return experiment.Clients{}, err
	}
	monitorClient, err := llm.NewClient(monitorSpec)
	if err != nil {
		return experiment.Clients{}, err
	}

	senderClient = llm.WithRetry(senderClient, cfg.RetryPolicy(), cfg.MaxInFlight, logger)
	monitorClient = llm.WithRetry(monitorClient, cfg.RetryPolicy(), cfg.MaxInFlight, logger)

	return experiment.Clients{
		Sender:   senderClient,
		Monitor:  monitorClient,
		Receiver: senderClient,
	}, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("interrupt received, shutting down gracefully", zap.Stringer("signal", sig))
		cancel()
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
