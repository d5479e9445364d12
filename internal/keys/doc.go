// Package keys manages provider API keys: env-file persistence under the
// config directory, environment-variable precedence, masked display, and
// no-echo terminal entry.
package keys
