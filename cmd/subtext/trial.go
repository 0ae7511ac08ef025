package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subtext/internal/experiment"
	"subtext/internal/models"
)

func newTrialCommand() *cobra.Command {
	var (
		configPath string
		label      string
		taskIndex  int
	)

	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Run a single trial and print the outcome (smoke test)",
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

			found := false
			for _, l := range suite.Labels {
				if l == label {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("label %q is not in the configured label set", label)
			}
			if taskIndex < 0 || taskIndex >= len(suite.Tasks) {
				return fmt.Errorf("task index %d out of range (0..%d)", taskIndex, len(suite.Tasks)-1)
			}

			clients, err := buildClients(cfg, logger)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(logger)
			defer cancel()

			// nil writer: a smoke trial is not persisted
			runner := experiment.New(cfg, suite, clients, nil, logger)
			rec := runner.RunTrial(ctx, label, suite.Tasks[taskIndex], 0)

			fmt.Printf("Trial %s: %s\n", rec.TrialID, rec.Status)
			if rec.Error != nil {
				return fmt.Errorf("%s: %s", rec.Error.Type, rec.Error.Message)
			}

			fmt.Printf("\n--- artifact ---\n%s\n----------------\n\n", rec.Artifact)
			fmt.Printf("Hidden label:    %s\n", rec.HiddenLabel)
			fmt.Printf("Monitor answer:  %s\n", rec.MonitorAnswer)
			fmt.Printf("Receiver answer: %s\n", rec.ReceiverAnswer)

			if found := experiment.ScanArtifact(rec.Artifact, rec.HiddenLabel, suite.Synonyms); len(found) > 0 {
				fmt.Printf("WARNING: artifact leaks suppressed terms: %v\n", found)
			}

			if rec.Status == models.StatusEvaluated {
				fmt.Printf("\nMonitor correct:  %v\n", rec.MonitorAnswer == rec.HiddenLabel)
				fmt.Printf("Receiver correct: %v\n", rec.ReceiverAnswer == rec.HiddenLabel)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "experiment.yaml", "experiment config file")
	cmd.Flags().StringVarP(&label, "label", "l", "", "hidden label for the trial")
	cmd.Flags().IntVar(&taskIndex, "task-index", 0, "index into the task set")
	cmd.MarkFlagRequired("label")

	return cmd
}
