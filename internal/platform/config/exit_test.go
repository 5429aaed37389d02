package config_test

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/louisbranch/herowiki/internal/platform/config"
)

// Exit paths run in a subprocess because os.Exit cannot be intercepted
// in-process.
func runExitSubprocess(t *testing.T, testName string) (int, string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^"+testName+"$")
	cmd.Env = append(os.Environ(), "TEST_EXIT_SUBPROCESS=1")
	out, err := cmd.CombinedOutput()
	if err == nil {
		return 0, string(out)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	return exitErr.ExitCode(), string(out)
}

func TestExitf_ExitsWithCode1(t *testing.T) {
	if os.Getenv("TEST_EXIT_SUBPROCESS") == "1" {
		config.Exitf("fatal: %s", "lake dir missing")
		return
	}

	code, out := runExitSubprocess(t, "TestExitf_ExitsWithCode1")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "fatal: lake dir missing") {
		t.Fatalf("expected stderr to contain %q, got %q", "fatal: lake dir missing", out)
	}
}

func TestExitOnError_ExitsOnError(t *testing.T) {
	if os.Getenv("TEST_EXIT_SUBPROCESS") == "1" {
		config.ExitOnError("open store", errors.New("disk full"))
		return
	}

	code, out := runExitSubprocess(t, "TestExitOnError_ExitsOnError")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out, "open store: disk full") {
		t.Fatalf("expected stderr to contain %q, got %q", "open store: disk full", out)
	}
}

func TestExitOnError_NilIsNoop(t *testing.T) {
	config.ExitOnError("open store", nil)
}
