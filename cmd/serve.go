package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fathomhq/fathom/internal/agent"
	"github.com/fathomhq/fathom/internal/server"
	"github.com/fathomhq/fathom/internal/utils"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat server",
	Example: `  fathom serve
  fathom serve --addr :9000
  GROQ_API_KEY=gsk_... fathom serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		// Warn loudly at startup so a missing key is visible in the logs
		// before the first request fails.
		if cfg.APIKey == "" {
			fmt.Fprintln(os.Stderr, "⚠ Warning: GROQ_API_KEY is not set. The agent will return an error on every query until a key is provided.")
		}
		if err := utils.EnsureDir(cfg.StaticDir); err != nil {
			return fmt.Errorf("create static dir: %w", err)
		}

		a, err := buildAgent()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{Addr: cfg.Addr, StaticDir: cfg.StaticDir}, a)
		return srv.Run(ctx)
	},
}

// buildAgent wires the dataset, model client, and sandbox into an Agent
// from the loaded configuration. The dataset is loaded exactly once; a load
// failure is fatal.
func buildAgent() (*agent.Agent, error) {
	ds, err := loadDataset()
	if err != nil {
		return nil, err
	}
	runtime := buildRuntime()
	runner := buildRunner()
	logger := agentLogger()
	a := agent.New(ds, runtime, cfg.Models, runner, cfg.StaticDir, cfg.APIKey != "", logger)
	a.MaxTokens = cfg.MaxTokens
	return a, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func execTimeout() time.Duration {
	if cfg.ExecTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(cfg.ExecTimeoutSec) * time.Second
}
