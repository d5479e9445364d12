package research

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/loom/internal/cache"
	"github.com/dshills/loom/internal/providers"
)

// Practice is a single best-practice recommendation for a research topic.
type Practice struct {
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority"` // critical, high, medium, low
	// Synthesized marks practices produced by an LLM rather than the
	// built-in knowledge base.
	Synthesized bool `json:"synthesized,omitempty"`
}

// Results holds everything learned in one research run, keyed by topic.
type Results struct {
	Practices map[string][]Practice `json:"practices"`
	// Stack records the tech-stack context the research was scoped to.
	Stack string `json:"stack,omitempty"`
}

// All returns every practice across topics in stable topic order.
func (r *Results) All() []Practice {
	var out []Practice
	for _, topic := range Topics() {
		out = append(out, r.Practices[topic]...)
	}
	return out
}

// ByPriority returns practices at or above the given priority, highest first.
func (r *Results) ByPriority(min string) []Practice {
	rank := map[string]int{"critical": 4, "high": 3, "medium": 2, "low": 1}
	floor := rank[strings.ToLower(min)]
	var out []Practice
	for _, p := range r.All() {
		if rank[strings.ToLower(p.Priority)] >= floor {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank[strings.ToLower(out[i].Priority)] > rank[strings.ToLower(out[j].Priority)]
	})
	return out
}

// topicConcurrency bounds parallel topic research.
const topicConcurrency = 4

// Researcher gathers best practices per topic. The curated knowledge base is
// always included; when a reviewer is attached its synthesis is appended too.
type Researcher struct {
	reviewer providers.Reviewer
	cache    *cache.Cache
	logger   *zap.Logger
}

// Option configures a Researcher.
type Option func(*Researcher)

// WithReviewer attaches a provider used to synthesize practices beyond the
// built-in knowledge base.
func WithReviewer(r providers.Reviewer) Option {
	return func(res *Researcher) { res.reviewer = r }
}

// WithCache attaches a cache for synthesis responses.
func WithCache(c *cache.Cache) Option {
	return func(res *Researcher) { res.cache = c }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(res *Researcher) { res.logger = l }
}

// NewResearcher creates a Researcher.
func NewResearcher(opts ...Option) *Researcher {
	r := &Researcher{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Research gathers practices for every known topic, scoped to the given
// tech-stack description. Topics run in parallel; a synthesis failure on one
// topic degrades that topic to curated-only rather than failing the run.
func (r *Researcher) Research(ctx context.Context, stack string) (*Results, error) {
	topics := Topics()
	perTopic := make([][]Practice, len(topics))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(topicConcurrency)
	for i, topic := range topics {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perTopic[i] = r.researchTopic(gctx, topic, stack)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &Results{Practices: make(map[string][]Practice), Stack: stack}
	for i, topic := range topics {
		results.Practices[topic] = perTopic[i]
	}
	return results, nil
}

func (r *Researcher) researchTopic(ctx context.Context, topic, stack string) []Practice {
	practices := append([]Practice(nil), curated[topic]...)
	if r.reviewer == nil {
		return practices
	}

	synthesized, err := r.synthesize(ctx, topic, stack)
	if err != nil {
		r.logger.Warn("research synthesis failed, using curated practices only",
			zap.String("topic", topic),
			zap.Error(err))
		return practices
	}
	return append(practices, synthesized...)
}

const synthesisSystemPrompt = `You are a researcher compiling best practices for AI coding assistant
configuration files. Respond with a JSON object only:
{"practices": [{"title": "...", "detail": "...", "priority": "critical|high|medium|low"}]}
Keep each detail to one or two sentences. Return at most 5 practices.`

func (r *Researcher) synthesize(ctx context.Context, topic, stack string) ([]Practice, error) {
	prompt := fmt.Sprintf("Topic: %s best practices for assistant configs.\nTech stack: %s", topic, stack)

	key := cache.ResearchKey(topic, stack)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			r.logger.Debug("research cache hit", zap.String("topic", topic))
			return parsePractices(topic, cached)
		}
	}

	resp, err := r.reviewer.Review(ctx, providers.ReviewRequest{
		SystemPrompt: synthesisSystemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    1024,
		Temperature:  0.3,
	})
	if err != nil {
		return nil, err
	}

	practices, err := parsePractices(topic, resp.Content)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Put(key, resp.Content); err != nil {
			r.logger.Debug("research cache write failed", zap.Error(err))
		}
	}
	return practices, nil
}

type rawPractice struct {
	Title    string `json:"title"`
	Detail   string `json:"detail"`
	Priority string `json:"priority"`
}

func parsePractices(topic, content string) ([]Practice, error) {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, "{"); idx > 0 {
		content = content[idx:]
	}
	if idx := strings.LastIndex(content, "}"); idx >= 0 && idx < len(content)-1 {
		content = content[:idx+1]
	}

	var parsed struct {
		Practices []rawPractice `json:"practices"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing synthesis response: %w", err)
	}

	var out []Practice
	for _, p := range parsed.Practices {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		priority := strings.ToLower(p.Priority)
		switch priority {
		case "critical", "high", "medium", "low":
		default:
			priority = "medium"
		}
		out = append(out, Practice{
			Topic:       topic,
			Title:       p.Title,
			Detail:      p.Detail,
			Priority:    priority,
			Synthesized: true,
		})
	}
	return out, nil
}
