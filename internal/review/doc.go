// Package review implements the multi-provider consensus engine that gates
// generated configurations.
//
// It defines the Finding, Outcome, and Report types, dispatches one request to
// every configured reviewer concurrently under a single shared deadline,
// deduplicates the findings of the reviewers that answered, and computes a
// pass/fail/indeterminate verdict.
//
// Deduplication (dedup.go) builds equivalence classes over pairwise duplicate
// edges with union-find, so the merged set never depends on the order
// reviewers completed in. Two findings are duplicates when they share a
// normalized location (same file, lines within a tolerance window) and their
// messages overlap above a Jaccard threshold. Merged findings escalate to the
// highest severity of the group and union their source sets.
//
// The verdict uses conservative union semantics: independent reviewers are
// complementary detectors, not redundant voters, so a single critical or high
// finding fails the review regardless of what the other reviewers saw.
//
// Session (session.go) wraps the engine for the re-run-until-clean loop and
// keeps a bounded audit history of past reports.
package review
