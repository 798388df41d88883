package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fathomhq/fathom/internal/ai"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the model cascade and catalog info",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		for i, m := range cfg.Models {
			role := "fallback"
			if i == 0 {
				role = "primary"
			}
			if mi, ok := ai.LookupModel(m); ok {
				fmt.Printf("%-26s %-8s ctx=%d", m, role, mi.ContextTokens)
				if mi.RequestsPerDay > 0 {
					fmt.Printf("  req/day=%d", mi.RequestsPerDay)
				}
				fmt.Println()
			} else {
				fmt.Printf("%-26s %-8s (not in catalog)\n", m, role)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
