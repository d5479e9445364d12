package review

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultGrace bounds the result-collection overhead after the request
// deadline: reviewers that finish inside the grace window are still counted.
const DefaultGrace = 250 * time.Millisecond

// Engine fans one request out to every configured reviewer, collects outcomes
// up to the shared deadline, deduplicates the findings of the successful ones,
// and computes the overall verdict.
type Engine struct {
	dedup  Deduplicator
	grace  time.Duration
	logger *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDeduplicator overrides the default merge thresholds.
func WithDeduplicator(d Deduplicator) EngineOption {
	return func(e *Engine) { e.dedup = d }
}

// WithGrace overrides the straggler collection window.
func WithGrace(d time.Duration) EngineOption {
	return func(e *Engine) { e.grace = d }
}

// WithLogger attaches a logger. The engine logs diagnostics only; it never
// prints reports.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine with default thresholds.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		dedup:  NewDeduplicator(),
		grace:  DefaultGrace,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type indexedOutcome struct {
	idx int
	out Outcome
}

// Run dispatches the request to every client concurrently and returns the
// consensus report. It is synchronous from the caller's perspective: it
// returns only once every reviewer has answered or the deadline (plus a small
// grace window) has elapsed. An empty client set is a contract violation, not
// a reviewer failure.
func (e *Engine) Run(ctx context.Context, req Request, clients []Client) (*Report, error) {
	if len(clients) == 0 {
		return nil, errors.New("review: no reviewer clients configured")
	}

	start := time.Now()
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}
	log := e.logger.With(zap.String("correlationId", req.CorrelationID))
	log.Debug("dispatching review",
		zap.Int("reviewers", len(clients)),
		zap.Int("files", len(req.Files)),
		zap.Time("deadline", req.Deadline))

	// One buffered slot per reviewer: a straggler finishing after the deadline
	// sends into the buffer and is ignored, it never blocks or races.
	results := make(chan indexedOutcome, len(clients))
	for i, c := range clients {
		go func(i int, c Client) {
			results <- indexedOutcome{idx: i, out: c.Invoke(ctx, req)}
		}(i, c)
	}

	var expired <-chan time.Time
	if !req.Deadline.IsZero() {
		timer := time.NewTimer(time.Until(req.Deadline) + e.grace)
		defer timer.Stop()
		expired = timer.C
	}

	outcomes := make([]Outcome, len(clients))
	received := make([]bool, len(clients))
	pending := len(clients)
collect:
	for pending > 0 {
		select {
		case r := <-results:
			outcomes[r.idx] = r.out
			received[r.idx] = true
			pending--
		case <-expired:
			break collect
		case <-ctx.Done():
			break collect
		}
	}
	for i, c := range clients {
		if !received[i] {
			outcomes[i] = Outcome{
				Reviewer:  c.Name(),
				Reason:    FailTimeout,
				Detail:    "no response before deadline",
				ElapsedMs: time.Since(start).Milliseconds(),
			}
		}
	}

	perReviewer := make(map[string][]Finding)
	succeeded := 0
	for _, out := range outcomes {
		if out.OK() {
			succeeded++
			perReviewer[out.Reviewer] = out.Findings
			log.Debug("reviewer succeeded",
				zap.String("reviewer", out.Reviewer),
				zap.Int("findings", len(out.Findings)),
				zap.Int64("elapsedMs", out.ElapsedMs))
		} else {
			log.Warn("reviewer failed",
				zap.String("reviewer", out.Reviewer),
				zap.String("reason", string(out.Reason)),
				zap.String("detail", out.Detail))
		}
	}

	report := &Report{
		CorrelationID: req.CorrelationID,
		Reviewers:     outcomes,
		CreatedAt:     start,
	}
	if succeeded == 0 {
		report.Verdict = VerdictIndeterminate
		report.Findings = []Finding{}
	} else {
		report.Findings = e.dedup.Merge(perReviewer)
		report.Verdict = ComputeVerdict(report.Findings)
	}
	report.Summary = ComputeSummary(report.Findings)
	report.ElapsedMs = time.Since(start).Milliseconds()

	log.Debug("review complete",
		zap.String("verdict", string(report.Verdict)),
		zap.Int("merged", len(report.Findings)),
		zap.Int64("elapsedMs", report.ElapsedMs))
	return report, nil
}
