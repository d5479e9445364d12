package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/analyzer"
	"github.com/dshills/loom/internal/config"
)

var flagAnalyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Extract patterns from existing configurations",
	Long:  "Scan a directory of existing config trees and report the section structure, permission rules, agents, commands, and hooks they share.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		root := cfg.ConfigsPath
		if len(args) == 1 {
			root = args[0]
		}
		if root == "" {
			root = "."
		}

		patterns, err := analyzer.Analyze(cmd.Context(), root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if flagAnalyzeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(patterns)
		}

		fmt.Fprintf(os.Stdout, "Scanned %d config tree(s)\n", patterns.ConfigsScanned)
		if common := patterns.CommonSections(); len(common) > 0 {
			fmt.Fprintln(os.Stdout, "\nCommon sections:")
			for _, s := range common {
				fmt.Fprintf(os.Stdout, "  %s (%d)\n", s, patterns.Sections[s])
			}
		}
		if len(patterns.Agents) > 0 {
			fmt.Fprintln(os.Stdout, "\nAgents:")
			for _, a := range patterns.Agents {
				fmt.Fprintf(os.Stdout, "  %s: %s\n", a.Name, a.Description)
			}
		}
		if len(patterns.Commands) > 0 {
			fmt.Fprintln(os.Stdout, "\nCommands:")
			for _, c := range patterns.Commands {
				fmt.Fprintf(os.Stdout, "  %s: %s\n", c.Name, c.Description)
			}
		}
		if len(patterns.Hooks) > 0 {
			fmt.Fprintln(os.Stdout, "\nHooks:")
			for _, h := range patterns.Hooks {
				fmt.Fprintf(os.Stdout, "  %s: %s (%s)\n", h.Event, h.Command, h.Purpose)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&flagAnalyzeJSON, "json", false, "Emit patterns as JSON")
}
