// Package agent implements the query-processing pipeline: prompt building,
// model cascade with quota failover, code extraction, sandboxed execution
// with a single correction cycle, and response classification.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fathomhq/fathom/internal/ai"
	"github.com/fathomhq/fathom/internal/dataset"
	"github.com/fathomhq/fathom/internal/sandbox"
)

// Executor runs generated code against the dataset. *sandbox.Runner is the
// production implementation; tests substitute fakes.
type Executor interface {
	Run(ctx context.Context, code, datasetPath, plotPath string) (*sandbox.Result, error)
}

// Agent processes natural-language queries against one dataset. It is safe
// for concurrent use: the dataset and candidate list are read-only, and all
// per-query state (cascade cursor, reserved plot path) is created inside
// ProcessQuery.
type Agent struct {
	// MaxTokens caps each completion request; 0 leaves the backend default.
	MaxTokens int

	ds        *dataset.Dataset
	runtime   ai.Runtime
	models    []string
	executor  Executor
	staticDir string
	hasAPIKey bool
	logger    *log.Logger
}

// New builds an Agent. models is the ordered cascade (primary first).
func New(ds *dataset.Dataset, runtime ai.Runtime, models []string, executor Executor, staticDir string, hasAPIKey bool, logger *log.Logger) *Agent {
	return &Agent{
		ds:        ds,
		runtime:   runtime,
		models:    models,
		executor:  executor,
		staticDir: staticDir,
		hasAPIKey: hasAPIKey,
		logger:    logger,
	}
}

// reservePlotFile returns a fresh chart filename, unique per invocation so
// concurrent queries never write to the same path.
func reservePlotFile() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "plot_" + hex[:8] + ".png"
}

// ProcessQuery runs the full pipeline for one query.
//
// Flow: build the system prompt with the dataset schema and a reserved plot
// path, ask the cascade for Python code, extract it, execute it in the
// sandbox, and classify stdout/chart into a Response. An execution failure
// triggers at most one correction cycle: the failing code and error are sent
// back through the same cascade (cursor position preserved) and the
// corrected code is executed once more. Backend failures never trigger
// correction.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (*Response, error) {
	if !a.hasAPIKey {
		return nil, ErrNoAPIKey
	}

	plotFile := reservePlotFile()
	plotPath := filepath.Join(a.staticDir, plotFile)
	system := BuildSystemPrompt(a.ds.Schema(), plotPath)

	casc := NewCascade(a.runtime, a.models, a.MaxTokens, a.logger)
	msgs := []ai.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: query},
	}
	raw, err := casc.Generate(ctx, msgs)
	if err != nil {
		return nil, err
	}
	code := ExtractCode(raw)
	a.logger.Printf("generated %d bytes of code (model %s)", len(code), casc.Current())

	res, runErr := a.executor.Run(ctx, code, a.ds.Path, plotPath)
	if runErr != nil {
		var execErr *sandbox.ExecError
		if !errors.As(runErr, &execErr) {
			return nil, fmt.Errorf("execute code: %w", runErr)
		}
		res, err = a.correct(ctx, casc, msgs, execErr, plotPath)
		if err != nil {
			return nil, err
		}
	}

	return Classify(res.Stdout, res.ImageProduced, plotFile), nil
}

// correct performs the single permitted correction cycle. The cascade keeps
// its cursor, so a backend already found rate-limited in this query is not
// asked again.
func (a *Agent) correct(ctx context.Context, casc *Cascade, msgs []ai.Message, execErr *sandbox.ExecError, plotPath string) (*sandbox.Result, error) {
	a.logger.Printf("execution failed, requesting correction: %s", execErr.Detail)

	correction := append(append([]ai.Message{}, msgs...), ai.Message{
		Role:    "user",
		Content: BuildCorrectionPrompt(execErr.Code, execErr.Detail),
	})
	raw, err := casc.Generate(ctx, correction)
	if err != nil {
		// QuotaExhausted or BackendError from the re-prompt: no second
		// execution happens.
		return nil, err
	}
	code := ExtractCode(raw)

	res, runErr := a.executor.Run(ctx, code, a.ds.Path, plotPath)
	if runErr != nil {
		var second *sandbox.ExecError
		detail := runErr.Error()
		if errors.As(runErr, &second) {
			detail = second.Detail
		}
		a.logger.Printf("correction attempt also failed: %s", detail)
		return nil, &ExecutionFailedError{Detail: detail}
	}
	return res, nil
}
