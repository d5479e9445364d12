package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/loom/internal/cache"
	"github.com/dshills/loom/internal/config"
	"github.com/dshills/loom/internal/keys"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show effective configuration, keys, and cache at a glance",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stdout, "Reviewers:")
		for _, spec := range cfg.Reviewers {
			fmt.Fprintf(os.Stdout, "  %s\n", spec)
		}
		fmt.Fprintf(os.Stdout, "Review deadline: %ds, max cycles: %d\n",
			cfg.ReviewDeadlineSeconds, cfg.MaxReviewCycles)

		fmt.Fprintln(os.Stdout, "\nKeys:")
		if km, err := keys.NewManager(); err == nil {
			for _, st := range km.List() {
				if st.Source == "" {
					fmt.Fprintf(os.Stdout, "  %-10s not configured\n", st.Provider)
				} else {
					fmt.Fprintf(os.Stdout, "  %-10s %s (%s)\n", st.Provider, st.Masked, st.Source)
				}
			}
		}

		fmt.Fprintln(os.Stdout, "\nCache:")
		c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
		if err != nil || !c.Enabled() {
			fmt.Fprintln(os.Stdout, "  disabled")
			return nil
		}
		stats, err := c.GetStats()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "  %d entries, %d bytes at %s\n", stats.Entries, stats.TotalBytes, stats.Dir)
		return nil
	},
}
