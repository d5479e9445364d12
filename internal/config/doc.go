// Package config loads and merges loom configuration from defaults, the
// platform config file, environment variables, and CLI flag overrides, in
// that order of precedence.
package config
