package questionnaire

// DefaultGroups builds the interview used by loom generate.
func DefaultGroups() []Group {
	return []Group{
		basicsGroup(),
		techStackGroup(),
		workflowGroup(),
		securityGroup(),
		featuresGroup(),
		reviewGroup(),
	}
}

func basicsGroup() Group {
	return Group{
		Name:        "Basics",
		Description: "Start with the fundamentals.",
		Questions: []Question{
			{
				Key:     "config_name",
				Prompt:  "What should we call this configuration?",
				Kind:    KindText,
				Default: "my-claude-config",
				Help:    "Used as the output directory name",
			},
			{
				Key:     "identity",
				Prompt:  "How should the assistant address you?",
				Kind:    KindText,
				Default: "Boss",
			},
			{
				Key:  "purpose",
				Prompt: "What is the primary purpose of this config?",
				Kind: KindSelect,
				Options: []string{
					"Solo development",
					"Team collaboration",
					"Learning",
					"Enterprise",
					"Research",
				},
				Default: "Solo development",
			},
		},
	}
}

func techStackGroup() Group {
	return Group{
		Name:        "Tech Stack",
		Description: "Describe your development environment.",
		Questions: []Question{
			{
				Key:  "primary_language",
				Prompt: "What's your primary programming language?",
				Kind: KindSelect,
				Options: []string{
					"Python", "TypeScript/JavaScript", "Go", "Rust",
					"Java/Kotlin", "C/C++", "Ruby", "Multiple languages",
				},
				Default: "Go",
			},
			{
				Key:  "frameworks",
				Prompt: "What frameworks do you use?",
				Kind: KindMulti,
				Options: []string{
					"React/Next.js", "Vue/Nuxt", "FastAPI", "Django",
					"Express/Node", "Spring Boot", "Rails", "None/Vanilla",
				},
				Required: false,
				Help:     "Comma-separated choices",
			},
			{
				Key:  "database",
				Prompt: "What database(s) do you use?",
				Kind: KindMulti,
				Options: []string{
					"PostgreSQL", "MySQL", "SQLite", "MongoDB",
					"Redis", "DynamoDB", "None",
				},
				Required: false,
			},
			{
				Key:      "test_runner",
				Prompt:   "Test command",
				Kind:     KindText,
				Required: false,
				Help:     "e.g. go test ./..., npm test",
			},
			{
				Key:      "build_command",
				Prompt:   "Build command",
				Kind:     KindText,
				Required: false,
			},
		},
	}
}

func workflowGroup() Group {
	return Group{
		Name:        "Workflow",
		Description: "How should the assistant work with you?",
		Questions: []Question{
			{
				Key:  "autonomy_level",
				Prompt: "How autonomous should the assistant be?",
				Kind: KindSelect,
				Options: []string{
					"Co-founder - highly autonomous, proactive",
					"Senior dev - autonomous with check-ins",
					"Junior dev - guided, asks questions",
					"Assistant - waits for instructions",
				},
				Default: "Senior dev - autonomous with check-ins",
			},
			{
				Key:  "common_tasks",
				Prompt: "Which tasks do you do most often?",
				Kind: KindMulti,
				Options: []string{
					"Feature development", "Bug fixing", "Refactoring",
					"Code review", "Testing", "Documentation", "DevOps",
				},
				Required: false,
			},
		},
	}
}

func securityGroup() Group {
	return Group{
		Name:        "Security",
		Description: "Permission boundaries for the assistant.",
		Questions: []Question{
			{
				Key:  "security_level",
				Prompt: "Security strictness",
				Kind: KindSelect,
				Options: []string{
					"Relaxed - personal projects",
					"Standard - balanced safety",
					"High - production systems",
					"Maximum - enterprise/regulated",
				},
				Default: "Standard - balanced safety",
			},
			{
				Key:  "allow_file_deletion",
				Prompt: "May the assistant delete files?",
				Kind: KindSelect,
				Options: []string{
					"Yes - any file",
					"Limited - only files it created",
					"No - never",
				},
				Default: "Limited - only files it created",
			},
			{
				Key:     "has_secrets",
				Prompt:  "Does the project use API keys or other secrets? (y/n)",
				Kind:    KindConfirm,
				Default: "y",
			},
		},
	}
}

func featuresGroup() Group {
	return Group{
		Name:        "Features",
		Description: "Optional capabilities to scaffold.",
		Questions: []Question{
			{
				Key:  "enable_agents",
				Prompt: "Which agents should be generated?",
				Kind: KindMulti,
				Options: []string{
					"code-reviewer", "test-writer", "doc-writer", "security-auditor",
				},
				Required: false,
			},
			{
				Key:  "enable_commands",
				Prompt: "Which commands should be generated?",
				Kind: KindMulti,
				Options: []string{
					"commit", "review", "test", "ship",
				},
				Required: false,
			},
			{
				Key:     "enable_memory",
				Prompt:  "Enable the persistent memory system? (y/n)",
				Kind:    KindConfirm,
				Default: "n",
			},
		},
	}
}

func reviewGroup() Group {
	return Group{
		Name:        "Review",
		Description: "Multi-provider consensus review of the generated config.",
		Questions: []Question{
			{
				Key:     "enable_review",
				Prompt:  "Submit the generated config for AI review before shipping? (y/n)",
				Kind:    KindConfirm,
				Default: "y",
			},
			{
				Key:      "review_focus",
				Prompt:   "Anything the reviewers should focus on?",
				Kind:     KindText,
				Required: false,
				Condition: func(a Answers) bool {
					return a.Bool("enable_review")
				},
			},
		},
	}
}
