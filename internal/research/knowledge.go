package research

// curated is the built-in best-practice knowledge base, used as the floor for
// every research run. LLM synthesis appends to these, never replaces them.
var curated = map[string][]Practice{
	"security": {
		{
			Topic:    "security",
			Title:    "Deny before allow",
			Detail:   "Start from an explicit deny list for destructive commands (rm -rf, force push, curl|sh) and widen allows per project need.",
			Priority: "critical",
		},
		{
			Topic:    "security",
			Title:    "Keep secrets out of the tree",
			Detail:   "Never write API keys into generated files; reference environment variables and add secret-bearing paths to deny rules.",
			Priority: "critical",
		},
		{
			Topic:    "security",
			Title:    "Scope file deletion",
			Detail:   "Restrict deletion to files the assistant created during the session unless the project explicitly needs more.",
			Priority: "high",
		},
	},
	"configuration": {
		{
			Topic:    "configuration",
			Title:    "Short CLAUDE.md beats long",
			Detail:   "Keep the instruction file under ~300 lines; move per-task detail into commands and agents.",
			Priority: "high",
		},
		{
			Topic:    "configuration",
			Title:    "State verify commands",
			Detail:   "Always record the exact test and build commands so changes can be verified without guessing.",
			Priority: "high",
		},
		{
			Topic:    "configuration",
			Title:    "One concern per agent",
			Detail:   "Agents with a single focused responsibility outperform do-everything agents.",
			Priority: "medium",
		},
	},
	"workflow": {
		{
			Topic:    "workflow",
			Title:    "Match autonomy to trust",
			Detail:   "High autonomy belongs with mature test suites; without one, prefer check-in workflows.",
			Priority: "medium",
		},
		{
			Topic:    "workflow",
			Title:    "Hooks for the boring parts",
			Detail:   "Use lifecycle hooks for formatting and lint so instructions stay about judgment, not mechanics.",
			Priority: "low",
		},
	},
	"review": {
		{
			Topic:    "review",
			Title:    "Independent reviewers disagree usefully",
			Detail:   "Two providers with different training catch different classes of config mistakes; union their findings rather than intersecting.",
			Priority: "high",
		},
		{
			Topic:    "review",
			Title:    "Gate on severity, not count",
			Detail:   "One critical finding should block shipping; twenty low findings should not.",
			Priority: "medium",
		},
	},
}

// Topics returns the known research topics in stable order.
func Topics() []string {
	return []string{"security", "configuration", "workflow", "review"}
}
