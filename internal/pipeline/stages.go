package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/loom/internal/advisor"
	"github.com/dshills/loom/internal/analyzer"
	"github.com/dshills/loom/internal/artifact"
	"github.com/dshills/loom/internal/generator"
	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/review"
	"github.com/dshills/loom/internal/validator"
)

// QuestionnaireStage interviews the user. Skipped when answers arrived
// preloaded (answers file or caller).
type QuestionnaireStage struct{}

func (s *QuestionnaireStage) Name() string { return "questionnaire" }

func (s *QuestionnaireStage) Skip(pc *Context) bool { return pc.Answers != nil }

func (s *QuestionnaireStage) Run(_ context.Context, pc *Context) error {
	engine := questionnaire.NewEngine(pc.Stdin, pc.Stdout)
	answers, err := engine.Run()
	if err != nil {
		return err
	}
	pc.Answers = answers
	return nil
}

// DiscoverStage scans existing config trees for reusable patterns.
type DiscoverStage struct{}

func (s *DiscoverStage) Name() string { return "discover" }

func (s *DiscoverStage) Skip(pc *Context) bool { return pc.Config.ConfigsPath == "" }

func (s *DiscoverStage) Run(ctx context.Context, pc *Context) error {
	patterns, err := analyzer.Analyze(ctx, pc.Config.ConfigsPath)
	if err != nil {
		return err
	}
	pc.Patterns = patterns
	return nil
}

// ResearchStage gathers best practices scoped to the answered tech stack.
type ResearchStage struct{}

func (s *ResearchStage) Name() string { return "research" }

func (s *ResearchStage) Skip(pc *Context) bool { return pc.Researcher == nil }

func (s *ResearchStage) Run(ctx context.Context, pc *Context) error {
	results, err := pc.Researcher.Research(ctx, stackDescription(pc.Answers))
	if err != nil {
		return err
	}
	pc.Research = results
	return nil
}

func stackDescription(a questionnaire.Answers) string {
	parts := []string{a.String("primary_language")}
	parts = append(parts, a.List("frameworks")...)
	var out []string
	for _, p := range parts {
		if p != "" && p != "None/Vanilla" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

// AdviseStage critiques the answers before anything is generated. Blocking
// concerns stop the pipeline unless forced.
type AdviseStage struct{}

func (s *AdviseStage) Name() string { return "advise" }

func (s *AdviseStage) Skip(pc *Context) bool { return false }

func (s *AdviseStage) Run(_ context.Context, pc *Context) error {
	result := advisor.Analyze(pc.Answers)
	pc.Advice = &result

	if pc.Stdout != nil {
		for _, c := range result.Concerns {
			fmt.Fprintf(pc.Stdout, "advisor [%s]: %s (%s)\n", c.Severity, c.Message, c.Suggestion)
		}
	}
	if result.Blocking() && !pc.Force {
		return fmt.Errorf("blocking advisor concerns (score %d); rerun with --force to proceed anyway", result.Score)
	}
	return nil
}

// GenerateStage renders the artifact set.
type GenerateStage struct{}

func (s *GenerateStage) Name() string { return "generate" }

func (s *GenerateStage) Skip(pc *Context) bool { return false }

func (s *GenerateStage) Run(_ context.Context, pc *Context) error {
	out, err := generator.Generate(generator.Input{
		Answers:  pc.Answers,
		Patterns: pc.Patterns,
		Research: pc.Research,
	})
	if err != nil {
		return err
	}
	pc.Output = out
	return nil
}

// ValidateStage structurally checks the generated artifacts. Generation bugs
// should be caught here, before any provider spend.
type ValidateStage struct{}

func (s *ValidateStage) Name() string { return "validate" }

func (s *ValidateStage) Skip(pc *Context) bool { return pc.Output == nil }

func (s *ValidateStage) Run(_ context.Context, pc *Context) error {
	rep := validator.Validate(pc.Output.Files)
	pc.Validation = &rep
	if !rep.OK() {
		return fmt.Errorf("generated config failed structural validation with %d issue(s)", len(rep.Issues))
	}
	return nil
}

// ReviewStage submits the artifacts for consensus review and folds
// suggestions back in, up to the configured cycle limit.
type ReviewStage struct{}

func (s *ReviewStage) Name() string { return "review" }

func (s *ReviewStage) Skip(pc *Context) bool {
	return pc.Output == nil || len(pc.Clients) == 0 || !pc.Answers.Bool("enable_review")
}

func (s *ReviewStage) Run(ctx context.Context, pc *Context) error {
	cfg := pc.Config
	dedup := review.Deduplicator{
		LineTolerance:       cfg.LineTolerance,
		SimilarityThreshold: cfg.SimilarityThreshold,
	}
	engine := review.NewEngine(review.WithDeduplicator(dedup))
	session := review.NewSession(engine, pc.Clients,
		review.WithCycleTimeout(time.Duration(cfg.ReviewDeadlineSeconds)*time.Second))

	maxCycles := cfg.MaxReviewCycles
	if maxCycles < 1 {
		maxCycles = 1
	}
	for cycle := 1; cycle <= maxCycles; cycle++ {
		snap := artifact.FromFiles(pc.Output.Name, pc.Output.Files)
		report, err := session.RunCycle(ctx, snap.Request())
		if err != nil {
			return err
		}
		pc.Report = report

		if !session.ShouldRetry(report) {
			break
		}
		if cycle == maxCycles {
			break
		}
		if applied := generator.ApplyImprovements(pc.Output, report.Findings); applied == 0 {
			// Nothing actionable to fold in; another cycle would see the
			// same artifact.
			break
		}
	}
	return nil
}

// WriteStage persists the artifact set. A failed review verdict stops the
// write; the caller can inspect the report and force if desired.
type WriteStage struct{}

func (s *WriteStage) Name() string { return "write" }

func (s *WriteStage) Skip(pc *Context) bool { return pc.Output == nil }

func (s *WriteStage) Run(_ context.Context, pc *Context) error {
	if pc.Report != nil && pc.Report.Verdict != review.VerdictPass && !pc.Force {
		return fmt.Errorf("review verdict is %s; config not written (use --force to write anyway)", pc.Report.Verdict)
	}
	dir := pc.Config.OutputPath
	if dir == "" {
		dir = "."
	}
	path, err := generator.WriteConfig(pc.Output, dir)
	if err != nil {
		return err
	}
	pc.WrittenPath = path
	return nil
}
