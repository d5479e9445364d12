// Package cli implements the loom command tree: generate, review, analyze,
// research, validate, keys, config, status, and cache. Command handlers set a
// package-level exit code so main can exit deterministically.
package cli
