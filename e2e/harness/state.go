package harness

import (
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/tui/views"
	"github.com/artpar/restui/internal/workspace"
)

// State represents a snapshot of the entire TUI state for verification.
type State struct {
	Output    string
	MainView  MainViewState
	Tree      TreeState
	Request   RequestPanelState
	Response  ResponsePanelState
	Workspace WorkspaceState
}

// MainViewState captures the main view state.
type MainViewState struct {
	FocusedPane  string // "collections", "request", "response"
	DialogTitle  string
	ShowingHelp  bool
	ShowingList  bool
	Notification string
	Sending      bool
	Quitting     bool
}

// TreeState captures the selection and the visible tree.
type TreeState struct {
	Selection    workspace.Selection
	SelectedType string // "collection", "folder", "request"
	SelectedName string
	Moving       string // name of the item being moved, "" when idle
	Collections  []string
}

// RequestPanelState captures the request being edited.
type RequestPanelState struct {
	HasRequest bool
	Name       string
	Method     string
	URL        string
	Saved      bool
}

// ResponsePanelState captures the response panel state.
type ResponsePanelState struct {
	HasResponse bool
	StatusCode  int
	Body        string
	IsLoading   bool
	Error       string
}

// WorkspaceState captures the status bar messages.
type WorkspaceState struct {
	Status string
	Error  string
}

// CaptureState captures the current state of the TUI session.
func (s *TUISession) CaptureState() *State {
	return &State{
		Output:    s.Output(),
		MainView:  s.captureMainViewState(),
		Tree:      s.captureTreeState(),
		Request:   s.captureRequestPanelState(),
		Response:  s.captureResponsePanelState(),
		Workspace: s.captureWorkspaceState(),
	}
}

func (s *TUISession) captureMainViewState() MainViewState {
	m := s.model
	state := MainViewState{
		FocusedPane:  paneName(m.FocusedPane()),
		ShowingHelp:  m.ShowingHelp(),
		ShowingList:  m.HistoryList() != nil,
		Notification: m.Notification(),
		Sending:      m.Sending(),
		Quitting:     s.quit,
	}
	if d := m.Dialog(); d != nil {
		state.DialogTitle = d.Title()
	}
	return state
}

func (s *TUISession) captureTreeState() TreeState {
	ws := s.app.Workspace()
	state := TreeState{
		Selection:    ws.Selection(),
		SelectedName: ws.SelectedName(),
	}

	if item, ok := ws.SelectedItem(); ok {
		if item.IsFolder() {
			state.SelectedType = "folder"
		} else {
			state.SelectedType = "request"
		}
	} else if _, ok := ws.SelectedCollection(); ok {
		state.SelectedType = "collection"
	}

	if pm, ok := ws.PendingMove(); ok {
		state.Moving = pm.ItemName
	}
	for _, c := range ws.Collections() {
		state.Collections = append(state.Collections, c.Name())
	}
	return state
}

func (s *TUISession) captureRequestPanelState() RequestPanelState {
	ws := s.app.Workspace()
	req := ws.Current()
	if req == nil {
		return RequestPanelState{}
	}
	return RequestPanelState{
		HasRequest: true,
		Name:       req.Name(),
		Method:     string(req.Method()),
		URL:        req.URL(),
		Saved:      ws.CurrentIsSaved(),
	}
}

func (s *TUISession) captureResponsePanelState() ResponsePanelState {
	p := s.model.ResponsePanel()
	state := ResponsePanelState{IsLoading: p.IsLoading()}
	if resp := p.Response(); resp != nil {
		state.HasResponse = true
		state.StatusCode = resp.StatusCode
		state.Body = resp.Body
	}
	if err := p.Err(); err != nil {
		state.Error = err.Error()
	}
	return state
}

func (s *TUISession) captureWorkspaceState() WorkspaceState {
	ws := s.app.Workspace()
	return WorkspaceState{
		Status: ws.StatusMessage(),
		Error:  ws.ErrorMessage(),
	}
}

// Tree returns the names of every item in the named live collection in
// pre-order, folders suffixed with "/", indented two spaces per level.
func (s *TUISession) Tree(collection string) []string {
	for _, c := range s.app.Workspace().Collections() {
		if c.Name() == collection {
			return TreeLines(c)
		}
	}
	s.t.Fatalf("no open collection named %q", collection)
	return nil
}

// TreeLines lists every item of c in pre-order, ignoring expansion.
func TreeLines(c *core.Collection) []string {
	var lines []string
	c.Walk(func(depth int, item core.Item) bool {
		line := strings.Repeat("  ", depth) + item.Name()
		if item.IsFolder() {
			line += "/"
		}
		lines = append(lines, line)
		return true
	})
	return lines
}

func paneName(p views.Pane) string {
	switch p {
	case views.PaneRequest:
		return "request"
	case views.PaneResponse:
		return "response"
	default:
		return "collections"
	}
}
