// Package advisor critiques questionnaire answers before generation:
// security/autonomy coherence, feature alignment, and missing essentials.
// It is rule-based and runs entirely offline.
package advisor
