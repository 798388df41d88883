package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fathomhq/fathom/internal/utils"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the dataset one question from the terminal",
	Example: `  fathom ask "what was the average fare?"
  fathom ask "plot the age distribution"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("question cannot be empty")
		}
		if err := utils.EnsureDir(cfg.StaticDir); err != nil {
			return fmt.Errorf("create static dir: %w", err)
		}

		a, err := buildAgent()
		if err != nil {
			return err
		}
		resp, err := a.ProcessQuery(cmd.Context(), query)
		if err != nil {
			return err
		}

		fmt.Println(resp.Text)
		if resp.ImageFile != "" {
			fmt.Printf("\nChart saved: %s\n", filepath.Join(cfg.StaticDir, resp.ImageFile))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
