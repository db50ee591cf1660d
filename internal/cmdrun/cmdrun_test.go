package cmdrun

import (
	"context"
	"testing"
)

// TestExecRunnerCapturesOutput checks stdout and stderr capture on a
// successful command.
func TestExecRunnerCapturesOutput(t *testing.T) {
	r := &ExecRunner{}
	result, err := r.Run(context.Background(), "sh", "-c", "printf out; printf err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Stdout != "out" {
		t.Fatalf("stdout = %q, want out", result.Stdout)
	}
	if result.Stderr != "err" {
		t.Fatalf("stderr = %q, want err", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", result.ExitCode)
	}
}

// TestExecRunnerReportsExitCode checks the exit code survives a failed
// command.
func TestExecRunnerReportsExitCode(t *testing.T) {
	r := &ExecRunner{}
	result, err := r.Run(context.Background(), "sh", "-c", "exit 3")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if result.ExitCode != 3 {
		t.Fatalf("exit code = %d, want 3", result.ExitCode)
	}
}

// TestNewLogPairsInvocationWithResult checks the log constructor.
func TestNewLogPairsInvocationWithResult(t *testing.T) {
	log := NewLog("ffmpeg", []string{"-i", "in.mp4"}, Result{Stdout: "ok", ExitCode: 1})
	if log.Command != "ffmpeg" || log.ExitCode != 1 || log.Stdout != "ok" {
		t.Fatalf("log = %+v", log)
	}
	if len(log.Args) != 2 || log.Args[0] != "-i" {
		t.Fatalf("args = %v", log.Args)
	}
}
