package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/fathomhq/fathom/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Fathom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("api_key: %s\n", mask(cfg.APIKey))
		fmt.Printf("models: %s\n", strings.Join(cfg.Models, ", "))
		if cfg.BaseURL != "" {
			fmt.Printf("base_url: %s\n", cfg.BaseURL)
		}
		fmt.Printf("data_path: %s\n", cfg.DataPath)
		fmt.Printf("static_dir: %s\n", cfg.StaticDir)
		fmt.Printf("python_bin: %s\n", cfg.PythonBin)
		fmt.Printf("exec_timeout_sec: %d\n", cfg.ExecTimeoutSec)
		fmt.Printf("addr: %s\n", cfg.Addr)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "models":
			var models []string
			for _, m := range strings.Split(val, ",") {
				if m = strings.TrimSpace(m); m != "" {
					models = append(models, m)
				}
			}
			if len(models) == 0 {
				return fmt.Errorf("models cannot be empty")
			}
			cfg.Models = models
		case "base_url":
			cfg.BaseURL = val
		case "data_path":
			cfg.DataPath = val
		case "static_dir":
			cfg.StaticDir = val
		case "python_bin":
			cfg.PythonBin = val
		case "addr":
			cfg.Addr = val
		case "exec_timeout_sec", "http_timeout_sec", "max_tokens":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("%s must be a positive integer", key)
			}
			switch key {
			case "exec_timeout_sec":
				cfg.ExecTimeoutSec = n
			case "http_timeout_sec":
				cfg.HTTPTimeoutSec = n
			case "max_tokens":
				cfg.MaxTokens = n
			}
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
