package harness

import (
	"slices"
	"testing"
)

// Journey represents a user journey test: a TUI session driven through
// named steps, each with actions and assertions on the captured state.
type Journey struct {
	t       *testing.T
	name    string
	harness *E2EHarness
	opts    []SessionOption
	session *TUISession
	steps   []*Step
}

// Step represents a single step in a journey.
type Step struct {
	name       string
	actions    []func(*TUISession)
	waitFor    func(*State) bool
	assertions []func(*testing.T, *State)
}

// NewJourney creates a journey on h.
func NewJourney(t *testing.T, h *E2EHarness, name string, opts ...SessionOption) *Journey {
	return &Journey{
		t:       t,
		name:    name,
		harness: h,
		opts:    opts,
	}
}

// Session returns the session of a journey that has run.
func (j *Journey) Session() *TUISession {
	return j.session
}

// Step adds a new step to the journey.
func (j *Journey) Step(name string) *StepBuilder {
	step := &Step{name: name}
	j.steps = append(j.steps, step)
	return &StepBuilder{journey: j, step: step}
}

// Run executes the journey and closes the session, which saves every
// collection.
func (j *Journey) Run() {
	j.t.Helper()
	j.t.Run(j.name, func(t *testing.T) {
		j.session = j.harness.TUI().Start(t, j.opts...)
		defer j.session.Close()

		for i, step := range j.steps {
			t.Logf("Step %d: %s", i+1, step.name)

			for _, action := range step.actions {
				action(j.session)
			}

			if step.waitFor != nil {
				if err := j.session.WaitFor(step.waitFor); err != nil {
					t.Fatalf("Step %d (%s): %v\n%s", i+1, step.name, err, j.session.Output())
				}
			} else {
				j.session.Settle()
			}

			state := j.session.CaptureState()
			for _, assertion := range step.assertions {
				assertion(t, state)
			}
		}
	})
}

// StepBuilder provides a fluent API for building steps.
type StepBuilder struct {
	journey *Journey
	step    *Step
}

// SendKeys adds key press actions.
func (b *StepBuilder) SendKeys(keys ...string) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.SendKeys(keys...)
	})
	return b
}

// Type adds a typing action.
func (b *StepBuilder) Type(text string) *StepBuilder {
	b.step.actions = append(b.step.actions, func(s *TUISession) {
		s.Type(text)
	})
	return b
}

// Do adds an arbitrary action, such as writing a file the watcher should see.
func (b *StepBuilder) Do(action func(*TUISession)) *StepBuilder {
	b.step.actions = append(b.step.actions, action)
	return b
}

// WaitFor adds a condition to wait for before assertions.
func (b *StepBuilder) WaitFor(condition func(*State) bool) *StepBuilder {
	b.step.waitFor = condition
	return b
}

// ExpectSelected asserts the selected line.
func (b *StepBuilder) ExpectSelected(kind, name string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if s.Tree.SelectedType != kind || s.Tree.SelectedName != name {
			t.Errorf("Expected %s %q selected, got %s %q", kind, name, s.Tree.SelectedType, s.Tree.SelectedName)
		}
	})
}

// ExpectStatus asserts the status bar message.
func (b *StepBuilder) ExpectStatus(status string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if s.Workspace.Status != status {
			t.Errorf("Expected status %q, got %q", status, s.Workspace.Status)
		}
	})
}

// ExpectErrorMessage asserts the status bar error.
func (b *StepBuilder) ExpectErrorMessage(msg string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if s.Workspace.Error != msg {
			t.Errorf("Expected error %q, got %q", msg, s.Workspace.Error)
		}
	})
}

// ExpectDialog asserts the open dialog's title, "" for none.
func (b *StepBuilder) ExpectDialog(title string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if s.MainView.DialogTitle != title {
			t.Errorf("Expected dialog %q, got %q", title, s.MainView.DialogTitle)
		}
	})
}

// ExpectMoving asserts the pending move, "" for none.
func (b *StepBuilder) ExpectMoving(name string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if s.Tree.Moving != name {
			t.Errorf("Expected pending move of %q, got %q", name, s.Tree.Moving)
		}
	})
}

// ExpectTree asserts the full item tree of a live collection.
func (b *StepBuilder) ExpectTree(collection string, lines ...string) *StepBuilder {
	b.step.assertions = append(b.step.assertions, func(t *testing.T, _ *State) {
		t.Helper()
		got := b.journey.session.Tree(collection)
		if !slices.Equal(got, lines) {
			t.Errorf("Expected tree of %s:\n%v\ngot:\n%v", collection, lines, got)
		}
	})
	return b
}

// ExpectQuit asserts the model asked the program to exit.
func (b *StepBuilder) ExpectQuit() *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		if !s.MainView.Quitting {
			t.Error("Expected the program to quit")
		}
	})
}

// ExpectOutput asserts the screen contains every string.
func (b *StepBuilder) ExpectOutput(expected ...string) *StepBuilder {
	return b.ExpectState(func(t *testing.T, s *State) {
		t.Helper()
		NewAssertions(t).OutputContains(s.Output, expected...)
	})
}

// ExpectState adds a custom state assertion.
func (b *StepBuilder) ExpectState(assertion func(*testing.T, *State)) *StepBuilder {
	b.step.assertions = append(b.step.assertions, assertion)
	return b
}

// Step starts a new step (returns to journey to continue chaining).
func (b *StepBuilder) Step(name string) *StepBuilder {
	return b.journey.Step(name)
}

// Run executes the journey (terminal operation).
func (b *StepBuilder) Run() {
	b.journey.Run()
}
