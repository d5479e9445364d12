package review

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/loom/internal/providers"
	"github.com/dshills/loom/internal/redact"
)

// Client is one configured reviewer capability. Invoke never returns a raw
// transport error: every failure mode is captured in the Outcome. Clients are
// stateless per call and safe to share across concurrent invocations.
type Client interface {
	Invoke(ctx context.Context, req Request) Outcome
	Name() string
}

// ClientOptions tunes a provider-backed client.
type ClientOptions struct {
	MaxTokens     int
	RedactSecrets bool
	RedactPaths   []string
}

// providerClient adapts a providers.Reviewer into a Client: it renders the
// prompt, enforces the request deadline, and classifies failures.
type providerClient struct {
	name     string
	reviewer providers.Reviewer
	opts     ClientOptions
}

// NewClient wraps a provider as a named reviewer client. name distinguishes
// multiple clients backed by the same provider with different models.
func NewClient(name string, reviewer providers.Reviewer, opts ClientOptions) Client {
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 2048
	}
	return &providerClient{name: name, reviewer: reviewer, opts: opts}
}

func (c *providerClient) Name() string { return c.name }

func (c *providerClient) Invoke(ctx context.Context, req Request) Outcome {
	start := time.Now()
	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}

	resp, err := c.reviewer.Review(ctx, providers.ReviewRequest{
		SystemPrompt: SystemPrompt(),
		UserPrompt:   BuildUserPrompt(c.redacted(req)),
		MaxTokens:    c.opts.MaxTokens,
	})
	if err != nil {
		return Outcome{
			Reviewer:  c.name,
			Reason:    classifyFailure(err),
			Detail:    err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	findings, err := ParseFindings(resp.Content, c.name)
	if err != nil {
		return Outcome{
			Reviewer:  c.name,
			Reason:    FailMalformed,
			Detail:    err.Error(),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
	}

	return Outcome{
		Reviewer:  c.name,
		Findings:  findings,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
}

// redacted returns a copy of the request with secret material masked before
// any content leaves the process.
func (c *providerClient) redacted(req Request) Request {
	if !c.opts.RedactSecrets {
		return req
	}
	files := make([]File, len(req.Files))
	for i, f := range req.Files {
		files[i] = File{
			Path:    f.Path,
			Content: redact.Content(f.Content, f.Path, c.opts.RedactPaths),
		}
	}
	req.Files = files
	return req
}

func classifyFailure(err error) FailureReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailTimeout
	case errors.Is(err, context.Canceled):
		return FailTimeout
	case providers.IsRateLimit(err):
		return FailRateLimited
	default:
		return FailTransport
	}
}
