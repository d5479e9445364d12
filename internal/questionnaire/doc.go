// Package questionnaire implements the interactive interview that feeds
// config generation: grouped questions with defaults, conditionals, and
// select/multi/confirm kinds, plus YAML answer files for non-interactive and
// CI runs.
package questionnaire
