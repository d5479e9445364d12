package review

import (
	"sort"
	"strings"
)

// Default thresholds for duplicate detection. Reviewers anchor the same
// logical issue on slightly different lines and phrase it differently, so
// both location and message matching are fuzzy.
const (
	DefaultLineTolerance       = 3
	DefaultSimilarityThreshold = 0.6
)

// Deduplicator merges near-duplicate findings reported by independent
// reviewers into canonical findings with provenance. The merge is built from
// equivalence classes over pairwise duplicate edges, so the result is
// independent of the order reviewers completed in.
type Deduplicator struct {
	// LineTolerance is the maximum line distance (in either direction) for two
	// findings in the same file to count as the same anchor.
	LineTolerance int
	// SimilarityThreshold is the minimum Jaccard overlap of lowercased,
	// whitespace-tokenized messages for two findings to count as duplicates.
	SimilarityThreshold float64
}

// NewDeduplicator returns a Deduplicator with the default thresholds.
func NewDeduplicator() Deduplicator {
	return Deduplicator{
		LineTolerance:       DefaultLineTolerance,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// Merge collapses per-reviewer findings into one deduplicated, deterministic
// sequence ordered by descending severity, then path, then line, then message.
func (d Deduplicator) Merge(perReviewer map[string][]Finding) []Finding {
	// Flatten in sorted reviewer order so class construction sees a stable
	// input; the final result does not depend on this order, but stable input
	// keeps union-find roots reproducible.
	reviewers := make([]string, 0, len(perReviewer))
	for name := range perReviewer {
		reviewers = append(reviewers, name)
	}
	sort.Strings(reviewers)

	var all []Finding
	for _, name := range reviewers {
		for _, f := range perReviewer[name] {
			if len(f.Sources) == 0 {
				f.Sources = []string{name}
			}
			all = append(all, f)
		}
	}
	if len(all) == 0 {
		return []Finding{}
	}

	// Union-find over pairwise duplicate edges. Transitive closure: if A~B and
	// B~C, all three merge even when A and C alone would not match.
	parent := make([]int, len(all))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if d.duplicate(all[i], all[j]) {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]Finding)
	for i, f := range all {
		r := find(i)
		groups[r] = append(groups[r], f)
	}

	merged := make([]Finding, 0, len(groups))
	for _, group := range groups {
		merged = append(merged, canonical(group))
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if SeverityRank(a.Severity) != SeverityRank(b.Severity) {
			return SeverityRank(a.Severity) > SeverityRank(b.Severity)
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Message < b.Message
	})
	return merged
}

// duplicate reports whether two findings describe the same logical issue.
func (d Deduplicator) duplicate(a, b Finding) bool {
	if normalizePath(a.Path) != normalizePath(b.Path) {
		return false
	}
	if !d.linesClose(a.Line, b.Line) {
		return false
	}
	return jaccard(a.Message, b.Message) >= d.SimilarityThreshold
}

// linesClose treats 0 as "whole file": an unanchored finding only matches
// another unanchored one.
func (d Deduplicator) linesClose(a, b int) bool {
	if a == 0 || b == 0 {
		return a == b
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= d.LineTolerance
}

func normalizePath(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "./")
	return strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
}

// jaccard computes token-set overlap of two messages, case-insensitive.
func jaccard(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for tok := range ta {
		if tb[tok] {
			inter++
		}
	}
	unionSize := len(ta) + len(tb) - inter
	return float64(inter) / float64(unionSize)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[strings.Trim(tok, ".,;:!?\"'()[]")] = true
	}
	delete(set, "")
	return set
}

// canonical collapses one duplicate group into a single finding. Every rule
// here is order-independent: max severity, min line, lexicographic tie-breaks,
// sorted unions. Corroboration escalates severity, never downgrades it.
func canonical(group []Finding) Finding {
	out := group[0]
	for _, f := range group[1:] {
		if better(f, out) {
			out.Severity = f.Severity
			out.Category = f.Category
			out.Message = f.Message
		}
		if f.Confidence > out.Confidence {
			out.Confidence = f.Confidence
		}
		if f.Line != 0 && (out.Line == 0 || f.Line < out.Line) {
			out.Line = f.Line
		}
	}

	out.Suggestion = joinSuggestions(group)
	out.Sources = unionSources(group)
	out.ID = FindingID(out)
	return out
}

// better decides which member supplies the canonical message: highest
// severity wins, then the lexicographically smallest message, then category.
// The ordering is total so the canonical pick never depends on completion
// order.
func better(a, b Finding) bool {
	if SeverityRank(a.Severity) != SeverityRank(b.Severity) {
		return SeverityRank(a.Severity) > SeverityRank(b.Severity)
	}
	if a.Message != b.Message {
		return a.Message < b.Message
	}
	return a.Category < b.Category
}

func joinSuggestions(group []Finding) string {
	seen := make(map[string]bool)
	var distinct []string
	for _, f := range group {
		s := strings.TrimSpace(f.Suggestion)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		distinct = append(distinct, s)
	}
	sort.Strings(distinct)
	return strings.Join(distinct, "; ")
}

func unionSources(group []Finding) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, f := range group {
		for _, s := range f.Sources {
			if s != "" && !seen[s] {
				seen[s] = true
				sources = append(sources, s)
			}
		}
	}
	sort.Strings(sources)
	return sources
}
