// Package validator structurally checks an artifact set before review and
// before writing: JSON validity, required sections, permission sanity,
// definition front matter, and a secret scan.
package validator
