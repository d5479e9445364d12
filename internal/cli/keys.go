package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/keys"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage provider API keys",
	Long:  "Store, list, and remove provider API keys. Keys live in an owner-only file under the config directory; environment variables always take precedence.",
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keys.NewManager()
		if err != nil {
			return err
		}

		key, err := keys.ReadSecret(os.Stdin, os.Stderr, fmt.Sprintf("API key for %s: ", args[0]))
		if err != nil {
			return err
		}
		if err := km.Set(args[0], key); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Key stored for %s (%s)\n", args[0], keys.Mask(key))
		return nil
	},
}

var keysDeleteCmd = &cobra.Command{
	Use:   "delete <provider>",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keys.NewManager()
		if err != nil {
			return err
		}
		if err := km.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Key removed for %s\n", args[0])
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show key status per provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keys.NewManager()
		if err != nil {
			return err
		}
		for _, st := range km.List() {
			if st.Source == "" {
				fmt.Fprintf(os.Stdout, "  %-10s not configured\n", st.Provider)
				continue
			}
			fmt.Fprintf(os.Stdout, "  %-10s %s (%s)\n", st.Provider, st.Masked, st.Source)
		}
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysDeleteCmd)
	keysCmd.AddCommand(keysListCmd)
}
