package harness

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/config"
	"github.com/artpar/restui/internal/tui/views"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// settleQuiet is how long the message loop must stay idle before Settle
// returns. Cursor blinks and notification timers fire slower than this.
const settleQuiet = 150 * time.Millisecond

// TUIRunner provides TUI testing capabilities.
type TUIRunner struct {
	harness *E2EHarness
}

// TUISession drives a MainView over a real App the way a bubbletea program
// would: commands run on their own goroutines and their messages are fed
// back into Update on the test goroutine.
type TUISession struct {
	runner    *TUIRunner
	t         *testing.T
	app       *app.App
	model     *views.MainView
	clipboard []string

	msgs   chan tea.Msg
	done   chan struct{}
	cancel context.CancelFunc
	quit   bool
	closed bool
}

// SessionOption configures a TUI session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	width, height int
	watch         bool
}

// WithSize sets the terminal size.
func WithSize(width, height int) SessionOption {
	return func(c *sessionConfig) {
		c.width, c.height = width, height
	}
}

// WithWatcher starts the collection directory watcher.
func WithWatcher() SessionOption {
	return func(c *sessionConfig) {
		c.watch = true
	}
}

// Start opens the app on the harness data directory and starts a session.
func (r *TUIRunner) Start(t *testing.T, opts ...SessionOption) *TUISession {
	t.Helper()

	cfg := sessionConfig{width: 120, height: 40}
	for _, opt := range opts {
		opt(&cfg)
	}

	appCfg, err := config.Load(r.harness.dataDir, "")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	appCfg.WatchCollections = cfg.watch

	ctx, cancel := context.WithCancel(context.Background())
	a, err := app.Open(ctx, appCfg)
	if err != nil {
		cancel()
		t.Fatalf("failed to open app: %v", err)
	}

	s := &TUISession{
		runner: r,
		t:      t,
		app:    a,
		msgs:   make(chan tea.Msg, 64),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	viewOpts := []views.Option{
		views.WithClipboard(func(text string) error {
			s.clipboard = append(s.clipboard, text)
			return nil
		}),
	}
	if w := a.NewWatcher(); w != nil {
		if err := w.Start(ctx); err != nil {
			t.Fatalf("failed to start watcher: %v", err)
		}
		t.Cleanup(w.Stop)
		viewOpts = append(viewOpts, views.WithChanges(w.Changes()))
	}

	s.model = views.NewMainView(a, viewOpts...)
	s.model.SetSize(cfg.width, cfg.height)
	s.run(s.model.Init())

	t.Cleanup(s.Close)
	return s
}

// run executes cmd on its own goroutine, as the bubbletea runtime does.
func (s *TUISession) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if msg == nil {
			return
		}
		select {
		case s.msgs <- msg:
		case <-s.done:
		}
	}()
}

// handle feeds one message into the model.
func (s *TUISession) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, cmd := range msg {
			s.run(cmd)
		}
		return
	case tea.QuitMsg:
		s.quit = true
		return
	case spinner.TickMsg:
		if !s.model.Sending() {
			return
		}
	}

	_, cmd := s.model.Update(msg)
	s.run(cmd)
}

// pump handles every message that is already waiting.
func (s *TUISession) pump() {
	for {
		select {
		case msg := <-s.msgs:
			s.handle(msg)
		default:
			return
		}
	}
}

// SendKey sends a key press.
func (s *TUISession) SendKey(key string) *TUISession {
	s.pump()
	s.handle(parseKeyMsg(key))
	return s
}

// SendKeys sends multiple key presses.
func (s *TUISession) SendKeys(keys ...string) *TUISession {
	for _, key := range keys {
		s.SendKey(key)
	}
	return s
}

// Type sends a sequence of rune keys.
func (s *TUISession) Type(text string) *TUISession {
	for _, r := range text {
		s.pump()
		s.handle(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return s
}

// Settle processes messages until none arrive for a short while.
func (s *TUISession) Settle() *TUISession {
	deadline := time.Now().Add(s.runner.harness.timeout)
	for time.Now().Before(deadline) {
		select {
		case msg := <-s.msgs:
			s.handle(msg)
		case <-time.After(settleQuiet):
			return s
		}
	}
	return s
}

// WaitFor processes messages until cond holds for the captured state.
func (s *TUISession) WaitFor(cond func(*State) bool) error {
	timeout := s.runner.harness.timeout
	deadline := time.After(timeout)
	for {
		if cond(s.CaptureState()) {
			return nil
		}
		select {
		case msg := <-s.msgs:
			s.handle(msg)
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			return &TimeoutError{what: "condition", timeout: timeout}
		}
	}
}

// WaitForOutput waits for specific text in the rendered screen.
func (s *TUISession) WaitForOutput(text string) error {
	err := s.WaitFor(func(st *State) bool {
		return strings.Contains(st.Output, text)
	})
	if err != nil {
		return &TimeoutError{what: text, timeout: s.runner.harness.timeout}
	}
	return nil
}

// Output returns the current screen without styling.
func (s *TUISession) Output() string {
	return ansi.Strip(s.model.View())
}

// Quitting reports whether the model asked the program to exit.
func (s *TUISession) Quitting() bool {
	return s.quit
}

// Close stops the session, saves every collection as the real program does on
// exit and closes the app.
func (s *TUISession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.cancel()
	if err := s.app.SaveAll(context.Background()); err != nil {
		s.t.Errorf("failed to save collections: %v", err)
	}
	if err := s.app.Close(context.Background()); err != nil {
		s.t.Errorf("failed to close app: %v", err)
	}
}

func (s *TUISession) Model() *views.MainView { return s.model }
func (s *TUISession) App() *app.App          { return s.app }
func (s *TUISession) Clipboard() []string    { return s.clipboard }

// TimeoutError represents a timeout waiting for output.
type TimeoutError struct {
	what    string
	timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return "timeout after " + e.timeout.String() + " waiting for: " + e.what
}

// parseKeyMsg converts key string to tea.KeyMsg.
func parseKeyMsg(key string) tea.KeyMsg {
	switch strings.ToLower(key) {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc", "escape":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}
