// Loom generates Claude assistant configurations and gates them behind
// multi-provider consensus review.
//
// It interviews you about the project, learns patterns from existing configs,
// researches best practices, generates the artifact set, validates it, and
// submits it to independent AI reviewers in parallel. Any critical or high
// finding from any reviewer blocks the write.
//
// Usage:
//
//	loom generate                 # interview, generate, review, write
//	loom review ./my-config       # consensus-review an existing config
//	loom analyze ~/configs        # extract patterns from existing configs
//	loom research Go React        # show best practices for a stack
//	loom validate ./my-config     # offline structural checks
//	loom keys set openai          # store a provider API key
//
// See https://github.com/dshills/loom for full documentation.
package main
