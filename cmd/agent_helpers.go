package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fathomhq/fathom/internal/ai"
	"github.com/fathomhq/fathom/internal/dataset"
	"github.com/fathomhq/fathom/internal/sandbox"
)

func loadDataset() (*dataset.Dataset, error) {
	ds, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", cfg.DataPath, err)
	}
	fmt.Fprintf(os.Stderr, "dataset loaded: %s (%d rows, %d columns)\n", ds.Name(), ds.Rows(), len(ds.Columns()))
	return ds, nil
}

func buildRuntime() ai.Runtime {
	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	if cfg.BaseURL != "" {
		return ai.NewClientWithBaseURL(cfg.APIKey, timeout, 1, 0, 0, cfg.BaseURL)
	}
	return ai.NewClient(cfg.APIKey, timeout, 1, 0, 0)
}

func buildRunner() *sandbox.Runner {
	return sandbox.NewRunner(cfg.PythonBin, execTimeout())
}

func agentLogger() *log.Logger {
	if debug {
		return log.New(os.Stderr, "[fathom-agent] ", log.LstdFlags|log.Lshortfile)
	}
	return log.New(os.Stderr, "[fathom-agent] ", log.LstdFlags)
}
