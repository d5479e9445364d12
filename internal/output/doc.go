// Package output renders review and validation reports in text, JSON, and
// markdown formats.
package output
