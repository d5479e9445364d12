// Package analyzer extracts reusable patterns from existing assistant config
// trees: CLAUDE.md section structure, permission rules, agents, commands, and
// hooks. Directories are scanned in parallel with bounded concurrency.
package analyzer
