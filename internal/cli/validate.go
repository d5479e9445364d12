package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/artifact"
	"github.com/dshills/loom/internal/output"
	"github.com/dshills/loom/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Structurally validate a configuration",
	Long:  "Run offline structural checks on a configuration tree: JSON validity, required sections, permission sanity, and a secret scan. No providers are contacted.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		snap, err := artifact.Load(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		rep := validator.Validate(snap.Files)
		if err := output.WriteValidation(os.Stdout, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if !rep.OK() {
			exitCode = ExitFindings
		}
		return nil
	},
}
