package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/artifact"
	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/output"
	"github.com/dshills/loom/internal/providers"
	"github.com/dshills/loom/internal/review"
)

var (
	flagReviewOut string
)

var reviewCmd = &cobra.Command{
	Use:   "review [path]",
	Short: "Run consensus review on an existing configuration",
	Long:  "Load a configuration tree and submit it to every configured reviewer in parallel. The verdict is the conservative union: any critical or high finding fails.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync()

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		snap, err := artifact.Load(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		clients, err := buildClients(cfg)
		if err != nil {
			if providers.IsAuthError(err) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitAuthError
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		dedup := review.Deduplicator{
			LineTolerance:       cfg.LineTolerance,
			SimilarityThreshold: cfg.SimilarityThreshold,
		}
		engine := review.NewEngine(
			review.WithDeduplicator(dedup),
			review.WithLogger(logger),
		)
		session := review.NewSession(engine, clients,
			review.WithCycleTimeout(time.Duration(cfg.ReviewDeadlineSeconds)*time.Second),
			review.WithSessionLogger(logger),
		)

		report, err := session.RunCycle(cmd.Context(), snap.Request())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if err := output.WriteReport(report, cfg.Format, flagReviewOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		exitCode = verdictExitCode(report.Verdict)
		return nil
	},
}

// verdictExitCode maps a review verdict to the process exit code.
func verdictExitCode(v review.Verdict) int {
	switch v {
	case review.VerdictFail:
		return ExitFindings
	case review.VerdictIndeterminate:
		return ExitRuntimeError
	default:
		return ExitSuccess
	}
}

func init() {
	reviewCmd.Flags().StringVar(&flagReviewOut, "report-out", "", "Report file path (default: stdout)")
	reviewCmd.Flags().StringVar(&flagReviewers, "reviewers", "", "Reviewer specs, comma-separated provider:model pairs")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "", "Report format (text, json, markdown)")
}
