package review

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCycleTimeout is the per-cycle deadline applied when a request
// carries none.
const DefaultCycleTimeout = 120 * time.Second

// DefaultMaxHistory bounds the audit log of past reports held by a Session.
const DefaultMaxHistory = 20

// Session owns the review loop for one artifact: it runs consensus cycles,
// keeps a bounded history of past reports for audit, and tells the caller
// whether another cycle is worthwhile. Past reports are values and are never
// mutated.
type Session struct {
	engine     *Engine
	clients    []Client
	timeout    time.Duration
	maxHistory int
	logger     *zap.Logger

	mu      sync.Mutex
	history []*Report
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCycleTimeout sets the deadline applied to requests that carry none.
func WithCycleTimeout(d time.Duration) SessionOption {
	return func(s *Session) { s.timeout = d }
}

// WithMaxHistory bounds the number of retained reports.
func WithMaxHistory(n int) SessionOption {
	return func(s *Session) { s.maxHistory = n }
}

// WithSessionLogger attaches a logger.
func WithSessionLogger(l *zap.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a Session over the given engine and reviewer clients.
func NewSession(engine *Engine, clients []Client, opts ...SessionOption) *Session {
	s := &Session{
		engine:     engine,
		clients:    clients,
		timeout:    DefaultCycleTimeout,
		maxHistory: DefaultMaxHistory,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunCycle executes one consensus run and records its report.
func (s *Session) RunCycle(ctx context.Context, req Request) (*Report, error) {
	if req.Deadline.IsZero() && s.timeout > 0 {
		req.Deadline = time.Now().Add(s.timeout)
	}

	report, err := s.engine.Run(ctx, req, s.clients)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append(s.history, report)
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.mu.Unlock()

	s.logger.Info("review cycle recorded",
		zap.String("correlationId", report.CorrelationID),
		zap.String("verdict", string(report.Verdict)),
		zap.Int("findings", len(report.Findings)))
	return report, nil
}

// ShouldRetry reports whether the caller should apply fixes and run another
// cycle. Only a fail verdict is retryable: indeterminate means the reviewers
// themselves were unavailable, which needs human attention rather than
// another automatic attempt.
func (s *Session) ShouldRetry(report *Report) bool {
	return report != nil && report.Verdict == VerdictFail
}

// History returns a copy of the recorded reports, oldest first.
func (s *Session) History() []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Report, len(s.history))
	copy(out, s.history)
	return out
}
