package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/cache"
	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/keys"
	"github.com/dshills/loom/internal/output"
	"github.com/dshills/loom/internal/pipeline"
	"github.com/dshills/loom/internal/providers"
	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/research"
	"github.com/dshills/loom/internal/review"
)

var (
	flagAnswers   string
	flagForce     bool
	flagNoReview  bool
	flagReviewers string
	flagConfigs   string
	flagOut       string
	flagFormat    string
)

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagReviewers != "" {
		m["reviewers"] = flagReviewers
	}
	if flagConfigs != "" {
		m["configsPath"] = flagConfigs
	}
	if flagOut != "" {
		m["outputPath"] = flagOut
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	return m
}

// buildClients constructs one reviewer client per configured provider:model
// spec. Providers with no key configured are an auth error, not a silent skip.
func buildClients(cfg config.Config) ([]review.Client, error) {
	km, err := keys.NewManager()
	if err != nil {
		return nil, err
	}

	var clients []review.Client
	for _, spec := range cfg.Reviewers {
		provider, model, err := config.ParseReviewerSpec(spec)
		if err != nil {
			return nil, err
		}
		apiKey := km.Get(provider)
		reviewer, err := providers.New(provider, model, apiKey)
		if err != nil {
			return nil, fmt.Errorf("reviewer %s: %w", spec, err)
		}
		clients = append(clients, review.NewClient(spec, reviewer, review.ClientOptions{
			RedactSecrets: cfg.Privacy.RedactSecrets,
			RedactPaths:   cfg.Privacy.RedactPaths,
		}))
	}
	return clients, nil
}

func buildResearcher(cfg config.Config) *research.Researcher {
	store, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		store, _ = cache.New(false, "", 0)
	}
	opts := []research.Option{
		research.WithCache(store),
	}
	// Synthesis reuses the first configured reviewer's provider.
	if len(cfg.Reviewers) > 0 {
		provider, model, err := config.ParseReviewerSpec(cfg.Reviewers[0])
		if err == nil {
			if km, kerr := keys.NewManager(); kerr == nil {
				if reviewer, rerr := providers.New(provider, model, km.Get(provider)); rerr == nil {
					opts = append(opts, research.WithReviewer(reviewer))
				}
			}
		}
	}
	return research.NewResearcher(opts...)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new assistant configuration",
	Long:  "Interview, research, generate, validate, and review a new configuration, then write it to disk.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync()

		pc := &pipeline.Context{
			Config: cfg,
			Stdin:  os.Stdin,
			Stdout: os.Stdout,
			Force:  flagForce,
		}

		if flagAnswers != "" {
			answers, err := questionnaire.LoadAnswers(flagAnswers)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			pc.Answers = answers
		}

		if !flagNoReview {
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
			pc.Clients = clients
			pc.Researcher = buildResearcher(cfg)
		} else {
			pc.Researcher = research.NewResearcher()
		}

		if err := pipeline.Default(logger).Run(cmd.Context(), pc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if pc.Report != nil {
			if err := output.WriteReport(pc.Report, cfg.Format, ""); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
				exitCode = ExitRuntimeError
				return nil
			}
			if code := verdictExitCode(pc.Report.Verdict); code != ExitSuccess {
				exitCode = code
			}
		}
		if pc.WrittenPath != "" {
			fmt.Fprintf(os.Stdout, "Configuration written to %s\n", pc.WrittenPath)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagAnswers, "answers", "", "Answers file (YAML); skips the interview")
	generateCmd.Flags().BoolVar(&flagForce, "force", false, "Proceed past blocking advisor concerns and failed review verdicts")
	generateCmd.Flags().BoolVar(&flagNoReview, "no-review", false, "Skip consensus review and LLM research")
	generateCmd.Flags().StringVar(&flagReviewers, "reviewers", "", "Reviewer specs, comma-separated provider:model pairs")
	generateCmd.Flags().StringVar(&flagConfigs, "configs", "", "Directory of existing configs to learn patterns from")
	generateCmd.Flags().StringVar(&flagOut, "out", "", "Output directory (default: current directory)")
	generateCmd.Flags().StringVar(&flagFormat, "format", "", "Report format (text, json, markdown)")
}
