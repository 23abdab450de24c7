package harness

import (
	"bytes"
	"context"
	"time"

	"github.com/artpar/restui/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness data directory.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments. Command failures are
// reported through the result, not the error.
func (r *CLIRunner) Run(args ...string) *CLIResult {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{"--data-dir", r.harness.dataDir}, args...))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		result.ExitCode = 1
	}
	return result
}

// MustRun runs the command and fails the test when it exits non-zero.
func (r *CLIRunner) MustRun(args ...string) string {
	r.harness.t.Helper()
	result := r.Run(args...)
	if result.ExitCode != 0 {
		r.harness.t.Fatalf("restui %v failed: %v\n%s", args, result.Err, result.Stderr)
	}
	return result.Stdout
}
