package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/research"
)

var flagResearchOffline bool

var researchCmd = &cobra.Command{
	Use:   "research [stack...]",
	Short: "Show best practices for a tech stack",
	Long:  "Print configuration best practices: the built-in knowledge base plus, unless --offline, stack-specific additions synthesized by the first configured reviewer.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		var researcher *research.Researcher
		if flagResearchOffline {
			researcher = research.NewResearcher()
		} else {
			researcher = buildResearcher(cfg)
		}

		results, err := researcher.Research(cmd.Context(), strings.Join(args, ", "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		for _, topic := range research.Topics() {
			practices := results.Practices[topic]
			if len(practices) == 0 {
				continue
			}
			fmt.Fprintf(os.Stdout, "\n%s\n%s\n", strings.ToUpper(topic), strings.Repeat("─", 40))
			for _, p := range practices {
				marker := ""
				if p.Synthesized {
					marker = " *"
				}
				fmt.Fprintf(os.Stdout, "  [%s] %s%s\n      %s\n", p.Priority, p.Title, marker, p.Detail)
			}
		}
		fmt.Fprintln(os.Stdout, "\n* synthesized for your stack")
		return nil
	},
}

func init() {
	researchCmd.Flags().BoolVar(&flagResearchOffline, "offline", false, "Use only the built-in knowledge base")
}
