// Package sandbox executes model-generated Python analysis code in a
// separate interpreter process. Process isolation is the security boundary:
// the code only sees the dataset file, a plotting surface, and one reserved
// output path.
package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Result is the outcome of one successful execution.
type Result struct {
	Stdout        string
	ImageProduced bool
}

// ExecError reports a failed execution attempt. Code carries the offending
// source so the correction prompt can quote it back to the model.
type ExecError struct {
	Code   string
	Detail string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("code execution failed: %s", e.Detail)
}

// Runner runs generated code through the Python harness.
type Runner struct {
	PythonBin string
	Timeout   time.Duration
}

// NewRunner returns a Runner. pythonBin defaults to "python3".
func NewRunner(pythonBin string, timeout time.Duration) *Runner {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &Runner{PythonBin: pythonBin, Timeout: timeout}
}

// stderrTail keeps error detail bounded when generated code floods stderr.
const stderrTail = 2048

// Run executes code against the dataset at datasetPath. The generated code
// may write exactly one file, at plotPath; ImageProduced is true only when
// that file exists afterwards with non-zero size. A 0-byte leftover (e.g.
// from a crashed savefig) is removed and counts as no image.
func (r *Runner) Run(ctx context.Context, code, datasetPath, plotPath string) (*Result, error) {
	workDir, err := os.MkdirTemp("", "fathom-exec-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	harnessPath := filepath.Join(workDir, "harness.py")
	if err := os.WriteFile(harnessPath, []byte(harnessSource), 0o644); err != nil {
		return nil, fmt.Errorf("write harness: %w", err)
	}
	codePath := filepath.Join(workDir, "code.py")
	if err := os.WriteFile(codePath, []byte(code), 0o644); err != nil {
		return nil, fmt.Errorf("write code: %w", err)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// -I: isolated mode — ignore user site-packages and env hooks.
	cmd := exec.CommandContext(ctx, r.PythonBin, "-I", harnessPath, datasetPath, codePath, plotPath)
	cmd.Dir = workDir
	cmd.Env = []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + workDir,
		"MPLCONFIGDIR=" + workDir,
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	produced := checkImage(plotPath)

	if runErr != nil {
		detail := tail(stderr.String(), stderrTail)
		if detail == "" {
			detail = runErr.Error()
		}
		if ctx.Err() == context.DeadlineExceeded {
			detail = fmt.Sprintf("execution timed out after %s", r.Timeout)
		}
		return nil, &ExecError{Code: code, Detail: detail}
	}

	return &Result{
		Stdout:        stdout.String(),
		ImageProduced: produced,
	}, nil
}

// checkImage reports whether a non-empty file exists at path. Empty files
// are deleted so a later attempt can reuse the reserved path cleanly.
func checkImage(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	if fi.Size() == 0 {
		_ = os.Remove(path)
		return false
	}
	return true
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
