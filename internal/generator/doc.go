// Package generator renders assistant configuration artifacts (CLAUDE.md,
// settings, agents, commands, memory scaffolding) from questionnaire answers,
// analyzed patterns, and researched best practices. Output stays in memory
// until WriteConfig; review improvements fold back in between cycles.
package generator
