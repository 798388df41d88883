package sandbox

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// stubInterpreter writes an executable shell script that stands in for
// python3. Argv seen by the stub: -I <harness> <dataset> <code> <plot>.
func stubInterpreter(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not supported on windows")
	}
	p := filepath.Join(t.TempDir(), "python3")
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return p
}

func TestRunCapturesStdout(t *testing.T) {
	bin := stubInterpreter(t, `echo "Average fare: 32.2"`)
	r := NewRunner(bin, time.Minute)
	res, err := r.Run(context.Background(), "print()", "data.csv", filepath.Join(t.TempDir(), "plot.png"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "Average fare: 32.2" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
	if res.ImageProduced {
		t.Fatal("no image expected")
	}
}

func TestRunDetectsImage(t *testing.T) {
	// $5 is the reserved plot path.
	bin := stubInterpreter(t, `printf 'PNGDATA' > "$5"`)
	r := NewRunner(bin, time.Minute)
	plot := filepath.Join(t.TempDir(), "plot.png")
	res, err := r.Run(context.Background(), "plt.savefig(PLOT_PATH)", "data.csv", plot)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.ImageProduced {
		t.Fatal("expected ImageProduced")
	}
}

func TestRunEmptyImageTreatedAsAbsent(t *testing.T) {
	bin := stubInterpreter(t, `: > "$5"`)
	r := NewRunner(bin, time.Minute)
	plot := filepath.Join(t.TempDir(), "plot.png")
	res, err := r.Run(context.Background(), "code", "data.csv", plot)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.ImageProduced {
		t.Fatal("0-byte file must count as no image")
	}
	if _, err := os.Stat(plot); !os.IsNotExist(err) {
		t.Fatal("0-byte leftover should be removed")
	}
}

func TestRunFailureCarriesCodeAndStderr(t *testing.T) {
	bin := stubInterpreter(t, `echo "NameError: name 'dff' is not defined" >&2; exit 3`)
	r := NewRunner(bin, time.Minute)
	_, err := r.Run(context.Background(), "print(dff)", "data.csv", filepath.Join(t.TempDir(), "p.png"))
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if execErr.Code != "print(dff)" {
		t.Fatalf("offending code not carried: %q", execErr.Code)
	}
	if !strings.Contains(execErr.Detail, "NameError") {
		t.Fatalf("detail = %q", execErr.Detail)
	}
}

func TestRunTimeout(t *testing.T) {
	bin := stubInterpreter(t, `sleep 5`)
	r := NewRunner(bin, 50*time.Millisecond)
	_, err := r.Run(context.Background(), "while True: pass", "data.csv", filepath.Join(t.TempDir(), "p.png"))
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecError, got %v", err)
	}
	if !strings.Contains(execErr.Detail, "timed out") {
		t.Fatalf("detail = %q", execErr.Detail)
	}
}

// TestRunRealPython exercises the actual harness when a python3 with pandas
// and matplotlib is installed; otherwise the test is skipped.
func TestRunRealPython(t *testing.T) {
	bin, err := exec.LookPath("python3")
	if err != nil {
		t.Skip("python3 not installed")
	}
	if err := exec.Command(bin, "-c", "import pandas, matplotlib, seaborn").Run(); err != nil {
		t.Skip("analysis packages not installed")
	}
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(data, []byte("A,B\n1,2\n3,4\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	r := NewRunner(bin, time.Minute)
	res, err := r.Run(context.Background(), `print(f"sum={df['A'].sum()}")`, data, filepath.Join(dir, "p.png"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "sum=4" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}
