package harness

import (
	"fmt"
	"strings"
	"testing"
)

// Assertions provides E2E-specific assertions.
type Assertions struct {
	t *testing.T
}

// NewAssertions creates an assertions helper.
func NewAssertions(t *testing.T) *Assertions {
	return &Assertions{t: t}
}

// OutputContains asserts the output contains all given strings.
func (a *Assertions) OutputContains(output string, expected ...string) {
	a.t.Helper()
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			a.t.Errorf("expected output to contain %q, got:\n%s", exp, truncate(output, 2000))
		}
	}
}

// OutputNotContains asserts the output does not contain any of the given strings.
func (a *Assertions) OutputNotContains(output string, unexpected ...string) {
	a.t.Helper()
	for _, unexp := range unexpected {
		if strings.Contains(output, unexp) {
			a.t.Errorf("expected output NOT to contain %q, got:\n%s", unexp, truncate(output, 2000))
		}
	}
}

// StatusCode asserts the output contains the expected status code.
func (a *Assertions) StatusCode(output string, code int) {
	a.t.Helper()
	expected := fmt.Sprintf("%d", code)
	if !strings.Contains(output, expected) {
		a.t.Errorf("expected status code %d in output:\n%s", code, truncate(output, 2000))
	}
}

// Succeeded asserts a CLI run exited cleanly.
func (a *Assertions) Succeeded(result *CLIResult) {
	a.t.Helper()
	if result.ExitCode != 0 {
		a.t.Errorf("expected success, got exit code %d: %v\n%s", result.ExitCode, result.Err, result.Stderr)
	}
}

// Failed asserts a CLI run failed with an error containing msg.
func (a *Assertions) Failed(result *CLIResult, msg string) {
	a.t.Helper()
	if result.ExitCode == 0 {
		a.t.Errorf("expected failure containing %q, got success:\n%s", msg, result.Stdout)
		return
	}
	if !strings.Contains(result.Err.Error(), msg) {
		a.t.Errorf("expected error containing %q, got %v", msg, result.Err)
	}
}

// truncate truncates a string to maxLen bytes.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
