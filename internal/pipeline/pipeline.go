package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/loom/internal/advisor"
	"github.com/dshills/loom/internal/analyzer"
	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/generator"
	"github.com/dshills/loom/internal/questionnaire"
	"github.com/dshills/loom/internal/research"
	"github.com/dshills/loom/internal/review"
	"github.com/dshills/loom/internal/validator"
)

// Context is the shared state threaded through the generation pipeline. Each
// stage reads what earlier stages produced and records its own result.
type Context struct {
	Config config.Config

	// Stdin and Stdout drive interactive stages.
	Stdin  io.Reader
	Stdout io.Writer

	// Force lets generation continue past blocking advisor concerns.
	Force bool

	// Clients are the configured consensus reviewers. Empty disables the
	// review stage.
	Clients []review.Client

	// Researcher performs the research stage; nil degrades it to the
	// built-in knowledge base.
	Researcher *research.Researcher

	Answers    questionnaire.Answers
	Patterns   *analyzer.Patterns
	Research   *research.Results
	Advice     *advisor.Result
	Output     *generator.Output
	Validation *validator.Report
	Report     *review.Report

	// WrittenPath is where the final config landed on disk.
	WrittenPath string
}

// Stage is one step of the pipeline.
type Stage interface {
	Name() string
	// Skip reports whether the stage has nothing to do for this context.
	Skip(pc *Context) bool
	Run(ctx context.Context, pc *Context) error
}

// Pipeline runs stages sequentially, stopping at the first error.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// New creates a Pipeline.
func New(logger *zap.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Default returns the standard generation pipeline.
func Default(logger *zap.Logger) *Pipeline {
	return New(logger,
		&QuestionnaireStage{},
		&DiscoverStage{},
		&ResearchStage{},
		&AdviseStage{},
		&GenerateStage{},
		&ValidateStage{},
		&ReviewStage{},
		&WriteStage{},
	)
}

// Run executes every stage in order.
func (p *Pipeline) Run(ctx context.Context, pc *Context) error {
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if stage.Skip(pc) {
			p.logger.Debug("stage skipped", zap.String("stage", stage.Name()))
			continue
		}
		start := time.Now()
		p.logger.Debug("stage starting", zap.String("stage", stage.Name()))
		if err := stage.Run(ctx, pc); err != nil {
			return fmt.Errorf("%s stage: %w", stage.Name(), err)
		}
		p.logger.Info("stage finished",
			zap.String("stage", stage.Name()),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}
