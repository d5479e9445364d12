// Package redact masks secret material before configuration content leaves
// the process or lands in a generated tree. Detection is heuristic: known
// token shapes plus key-ish assignments in JSON, YAML, env, and markdown.
package redact
