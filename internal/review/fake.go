package review

import (
	"context"
	"time"
)

// FakeClient is a deterministic reviewer for tests and dry runs. It returns a
// fixed outcome, optionally after a delay, and respects the request deadline
// the same way a real client does.
type FakeClient struct {
	ReviewerName string
	Findings     []Finding
	Reason       FailureReason
	Detail       string
	Delay        time.Duration
}

func (f *FakeClient) Name() string { return f.ReviewerName }

func (f *FakeClient) Invoke(ctx context.Context, req Request) Outcome {
	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}
	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return Outcome{Reviewer: f.ReviewerName, Reason: FailTimeout, Detail: ctx.Err().Error()}
		case <-time.After(f.Delay):
		}
	}
	if f.Reason != "" {
		return Outcome{Reviewer: f.ReviewerName, Reason: f.Reason, Detail: f.Detail}
	}

	// Stamp provenance so callers can pass bare findings.
	findings := make([]Finding, len(f.Findings))
	copy(findings, f.Findings)
	for i := range findings {
		if len(findings[i].Sources) == 0 {
			findings[i].Sources = []string{f.ReviewerName}
		}
		if findings[i].ID == "" {
			findings[i].ID = FindingID(findings[i])
		}
	}
	return Outcome{Reviewer: f.ReviewerName, Findings: findings}
}
