package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtext/internal/config"
	"subtext/internal/experiment"
	"subtext/internal/metrics"
	"subtext/internal/models"
	"subtext/internal/results"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		input     string
		suitePath string
		showDist  bool
		showLeaks bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute accuracy metrics over recorded trials",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := findResultFiles(input)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no result files found in %s", input)
			}

			suite := config.DefaultSuite()
			if suitePath != "" {
				suite, err = config.LoadSuite(os.DirFS(filepath.Dir(suitePath)), filepath.Base(suitePath))
				if err != nil {
					return err
				}
			}

			renderer := metrics.TextRenderer{ShowDistribution: showDist}

			for _, file := range files {
				records, err := results.Load(file)
				if err != nil {
					return err
				}

				fmt.Printf("== %s ==\n", filepath.Base(file))
				m := metrics.Compute(records)
				if err := renderer.Render(os.Stdout, m); err != nil {
					return err
				}

				if showLeaks {
					reportLeaks(records, suite)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "outputs", "results file or directory")
	cmd.Flags().StringVar(&suitePath, "suite", "", "suite file for leak-scan synonyms")
	cmd.Flags().BoolVar(&showDist, "dist", false, "show guessed-label distribution")
	cmd.Flags().BoolVar(&showLeaks, "leaks", false, "scan artifacts for suppressed terms")

	return cmd
}

func findResultFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	return filepath.Glob(filepath.Join(input, "results_*.jsonl"))
}

// reportLeaks scans evaluated artifacts for literal occurrences of their
// hidden label or its synonyms and prints the offending trials.
func reportLeaks(records []models.TrialRecord, suite config.Suite) {
	leaked := 0
	for _, rec := range records {
		if rec.Status != models.StatusEvaluated {
			continue
		}
		if found := experiment.ScanArtifact(rec.Artifact, rec.HiddenLabel, suite.Synonyms); len(found) > 0 {
			leaked++
			fmt.Printf("leak: trial %s (%s) contains %v\n", rec.TrialID, rec.HiddenLabel, found)
		}
	}
	if leaked == 0 {
		fmt.Println("no suppressed terms found in artifacts")
	}
}
