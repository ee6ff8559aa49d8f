package main

import (
	"fmt"
	"log/slog"

	"github.com/sensiblebit/keykit/internal"
	"github.com/spf13/cobra"
)

var (
	batchConfigPath string
	batchKeepGoing  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a list of conversions from a YAML file",
	Long: `Run every conversion job in a YAML batch file. Each job names an input and
output file plus the usual target options; file-level defaults apply to jobs
that leave format or encoding unset.`,
	Example: `  keykit batch --config jobs.yaml
  keykit batch --config jobs.yaml --keep-going`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchConfigPath, "config", "c", "./keykit.yaml", "Path to batch job YAML")
	batchCmd.Flags().BoolVarP(&batchKeepGoing, "keep-going", "k", false, "Continue past failing jobs")

	registerCompletion(batchCmd, completionInput{flagName: "config", completeFunc: fileCompletion})
}

func runBatch(cmd *cobra.Command, args []string) error {
	jobs, err := internal.LoadBatchJobs(batchConfigPath)
	if err != nil {
		return err
	}

	failed := 0
	for i, job := range jobs {
		req := internal.ConvertRequest{
			In:          job.In,
			Out:         job.Out,
			Format:      job.Format,
			Encoding:    job.Encoding,
			Algorithm:   job.Algorithm,
			KeyType:     job.KeyType,
			KeyID:       job.KeyID,
			InPassword:  job.InPassword,
			OutPassword: job.OutPassword,
		}
		if err := internal.RunConversion(req); err != nil {
			if !batchKeepGoing {
				return fmt.Errorf("job %d (%s): %w", i+1, job.In, err)
			}
			slog.Error("batch job failed", "job", i+1, "in", job.In, "error", err)
			failed++
			continue
		}
		slog.Info("batch job done", "job", i+1, "in", job.In, "out", job.Out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
	}
	return nil
}
