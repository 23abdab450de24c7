package views

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/exporter"
	"github.com/artpar/restui/internal/history"
	httpclient "github.com/artpar/restui/internal/protocol/http"
	"github.com/artpar/restui/internal/tui"
	"github.com/artpar/restui/internal/tui/components"
	"github.com/artpar/restui/internal/workspace"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Pane represents which pane is focused.
type Pane int

const (
	PaneCollections Pane = iota
	PaneRequest
	PaneResponse
)

const historyPageSize = 50

// Backend is what the main view needs from the application.
type Backend interface {
	Workspace() *workspace.Workspace
	Send(ctx context.Context, req *core.RequestDefinition, collectionID string) (*httpclient.Response, error)
	LoadCollection(ctx context.Context, path string) (*core.Collection, error)
	History() history.Store
}

type responseMsg struct {
	resp *httpclient.Response
	err  error
}

type collectionLoadedMsg struct {
	path       string
	collection *core.Collection
	err        error
}

type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

// clearNotificationMsg is sent to clear the notification.
type clearNotificationMsg struct{}

// Option configures the MainView.
type Option func(*MainView)

// WithTheme sets the color theme.
func WithTheme(theme tui.Theme) Option {
	return func(v *MainView) {
		v.theme = theme
	}
}

// WithChanges subscribes the view to collection files reported by a watcher.
func WithChanges(changes <-chan string) Option {
	return func(v *MainView) {
		v.changes = changes
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(v *MainView) {
		v.copy = write
	}
}

// MainView is the three-pane request list, request and response layout.
// All workspace mutations happen on the bubbletea goroutine; background
// commands only do I/O and report back through messages.
type MainView struct {
	backend Backend
	ws      *workspace.Workspace
	width   int
	height  int

	focusedPane Pane
	theme       tui.Theme
	keys        components.KeyMap
	help        help.Model

	tree     *components.CollectionTree
	request  *components.RequestPanel
	response *components.ResponsePanel

	dialog       *components.Dialog
	deleteTarget workspace.DeleteTarget
	history      *components.HistoryList

	changes      <-chan string
	copy         func(string) error
	notification string
	sending      bool
}

// NewMainView creates the main view over backend.
func NewMainView(backend Backend, opts ...Option) *MainView {
	v := &MainView{
		backend: backend,
		ws:      backend.Workspace(),
		theme:   tui.ThemeByName(""),
		keys:    components.DefaultKeyMap(),
		help:    help.New(),
		copy:    clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(v)
	}

	v.tree = components.NewCollectionTree(v.ws, v.theme)
	v.request = components.NewRequestPanel(v.theme)
	v.response = components.NewResponsePanel(v.theme)
	v.tree.Focus()
	return v
}

// Init starts listening for collection file changes.
func (v *MainView) Init() tea.Cmd {
	return v.waitForChange()
}

func (v *MainView) waitForChange() tea.Cmd {
	if v.changes == nil {
		return nil
	}
	changes, backend := v.changes, v.backend
	return func() tea.Msg {
		path, ok := <-changes
		if !ok {
			return nil
		}
		c, err := backend.LoadCollection(context.Background(), path)
		return collectionLoadedMsg{path: path, collection: c, err: err}
	}
}

// Update handles messages.
func (v *MainView) Update(msg tea.Msg) (*MainView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case responseMsg:
		v.sending = false
		if msg.err != nil {
			v.response.SetError(msg.err)
		} else {
			v.response.SetResponse(msg.resp)
		}
		return v, nil

	case collectionLoadedMsg:
		if msg.err != nil {
			v.ws.SetError(fmt.Sprintf("Failed to load %s: %v", filepath.Base(msg.path), msg.err))
		} else {
			v.ws.AdoptCollection(msg.collection)
		}
		return v, v.waitForChange()

	case historyLoadedMsg:
		if msg.err != nil {
			v.ws.SetError("Failed to load history: " + msg.err.Error())
			return v, nil
		}
		v.history = components.NewHistoryList(msg.entries, v.theme)
		return v, nil

	case spinner.TickMsg:
		return v, v.response.Update(msg)

	case clearNotificationMsg:
		v.notification = ""
		return v, nil
	}

	if v.dialog != nil {
		_, cmd := v.dialog.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *MainView) handleKeyMsg(msg tea.KeyMsg) (*MainView, tea.Cmd) {
	if key.Matches(msg, v.keys.ForceQuit) {
		return v, tea.Quit
	}
	if v.dialog != nil {
		return v.handleDialogKey(msg)
	}
	if v.history != nil {
		v.handleHistoryKey(msg)
		return v, nil
	}
	if v.help.ShowAll {
		if key.Matches(msg, v.keys.Help, v.keys.Cancel, v.keys.Quit) {
			v.help.ShowAll = false
		}
		return v, nil
	}

	ws := v.ws
	ctx := context.Background()

	// Mutation errors are recorded by the workspace and shown in the status bar.
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Help):
		v.help.ShowAll = true
	case key.Matches(msg, v.keys.SwitchPane):
		v.focusPane(Pane((int(v.focusedPane) + 1) % 3))
	case key.Matches(msg, v.keys.Cancel):
		if _, ok := ws.PendingMove(); ok {
			ws.CancelMove()
		} else {
			ws.ClearMessages()
		}
	case key.Matches(msg, v.keys.NewCollection):
		return v, v.openInput(components.DialogNewCollection, "New collection", "")
	case key.Matches(msg, v.keys.NewFolder):
		return v, v.openInput(components.DialogNewFolder, "New folder", "")
	case key.Matches(msg, v.keys.NewRequest):
		return v, v.openInput(components.DialogNewRequest, "New request", "")
	case key.Matches(msg, v.keys.Rename):
		name := ws.SelectedName()
		if name == "" {
			ws.SetError("Nothing selected")
			return v, nil
		}
		return v, v.openInput(components.DialogRename, "Rename", name)
	case key.Matches(msg, v.keys.Delete):
		target, err := ws.PrepareDelete()
		if err != nil {
			return v, nil
		}
		v.deleteTarget = target
		v.dialog = components.NewConfirmDialog(components.DialogConfirmDelete, "Delete "+target.Type.String(), target.Prompt(), v.theme)
	case key.Matches(msg, v.keys.Duplicate):
		_, _ = ws.Duplicate(ctx)
	case key.Matches(msg, v.keys.Move):
		_ = ws.StartMove()
	case key.Matches(msg, v.keys.Sort):
		_, _ = ws.Sort(ctx)
	case key.Matches(msg, v.keys.Send):
		return v, v.send()
	case key.Matches(msg, v.keys.CopyCurl):
		return v, v.copyCurl()
	case key.Matches(msg, v.keys.EditURL):
		return v, v.openInput(components.DialogEditURL, "Edit URL", ws.Current().URL())
	case key.Matches(msg, v.keys.CycleMethod):
		req := ws.Current()
		req.SetMethod(req.Method().Next())
	case key.Matches(msg, v.keys.Save):
		_ = ws.SaveCurrentRequest(ctx)
	case key.Matches(msg, v.keys.History):
		return v, v.loadHistory()
	default:
		return v, v.handlePaneKey(msg)
	}
	return v, nil
}

func (v *MainView) handlePaneKey(msg tea.KeyMsg) tea.Cmd {
	switch v.focusedPane {
	case PaneCollections:
		v.handleTreeKey(msg)
	case PaneRequest:
		switch {
		case key.Matches(msg, v.keys.Collapse):
			v.request.PrevTab()
		case key.Matches(msg, v.keys.Expand):
			v.request.NextTab()
		case key.Matches(msg, v.keys.Enter):
			return v.openInput(components.DialogEditURL, "Edit URL", v.ws.Current().URL())
		}
	case PaneResponse:
		if key.Matches(msg, v.keys.ToggleHeaders) {
			v.response.ToggleHeaders()
			return nil
		}
		return v.response.Update(msg)
	}
	return nil
}

func (v *MainView) handleTreeKey(msg tea.KeyMsg) {
	ws := v.ws
	switch {
	case key.Matches(msg, v.keys.Up):
		ws.NavigateUp()
	case key.Matches(msg, v.keys.Down):
		ws.NavigateDown()
	case key.Matches(msg, v.keys.Collapse):
		ws.SetExpanded(false)
	case key.Matches(msg, v.keys.Expand):
		ws.SetExpanded(true)
	case key.Matches(msg, v.keys.Enter):
		v.activate()
	}
}

// activate completes a pending move, opens a request, or toggles a
// collection or folder.
func (v *MainView) activate() {
	ws := v.ws
	if _, ok := ws.PendingMove(); ok {
		_, _ = ws.ExecutePendingMove(context.Background())
		return
	}
	if req, ok := ws.OpenSelected(); ok {
		ws.SetStatus("Opened: " + req.Name())
		return
	}
	ws.ToggleExpand()
}

func (v *MainView) openInput(kind components.DialogKind, title, value string) tea.Cmd {
	v.dialog = components.NewInputDialog(kind, title, value, v.theme)
	return v.dialog.InitCmd()
}

func (v *MainView) handleDialogKey(msg tea.KeyMsg) (*MainView, tea.Cmd) {
	result, cmd := v.dialog.Update(msg)
	switch result {
	case components.DialogCancelled:
		v.dialog = nil
	case components.DialogSubmitted:
		d := v.dialog
		v.dialog = nil
		v.submitDialog(d)
	}
	return v, cmd
}

func (v *MainView) submitDialog(d *components.Dialog) {
	ws := v.ws
	ctx := context.Background()

	switch d.Kind() {
	case components.DialogNewCollection:
		_, _ = ws.CreateCollection(ctx, d.Value())
	case components.DialogNewFolder:
		_, _ = ws.CreateFolder(ctx, d.Value())
	case components.DialogNewRequest:
		_, _ = ws.CreateRequest(ctx, d.Value())
	case components.DialogRename:
		_, _ = ws.Rename(ctx, d.Value())
	case components.DialogEditURL:
		ws.Current().SetURL(d.Value())
		if ws.CurrentIsSaved() {
			ws.SetStatus("URL updated, ctrl+s to save")
		}
	case components.DialogConfirmDelete:
		_, _ = ws.ConfirmDelete(ctx, v.deleteTarget)
		v.deleteTarget = workspace.DeleteTarget{}
	}
}

func (v *MainView) handleHistoryKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.history.Move(-1)
	case key.Matches(msg, v.keys.Down):
		v.history.Move(1)
	case key.Matches(msg, v.keys.Enter):
		if e, ok := v.history.Selected(); ok {
			v.ws.LoadScratch(e.Request())
			v.ws.SetStatus("Loaded from history: " + e.Display())
			v.focusPane(PaneRequest)
		}
		v.history = nil
	case key.Matches(msg, v.keys.Cancel, v.keys.History, v.keys.Quit):
		v.history = nil
	}
}

// send executes the edited request. With the request list focused, a
// selected request other than the one being edited is opened first.
func (v *MainView) send() tea.Cmd {
	ws := v.ws
	if v.sending {
		return nil
	}
	if v.focusedPane == PaneCollections {
		if item, ok := ws.SelectedItem(); ok && !item.IsFolder() && item.ID() != ws.Current().ID() {
			ws.OpenSelected()
		}
	}

	req := ws.Current()
	if strings.TrimSpace(req.URL()) == "" {
		ws.SetError("Request has no URL, press u to set one")
		return nil
	}

	v.sending = true
	ws.ClearMessages()
	snapshot := req.Copy()
	collectionID := ws.CurrentCollectionID()
	backend := v.backend
	return tea.Batch(v.response.SetLoading(true), func() tea.Msg {
		resp, err := backend.Send(context.Background(), snapshot, collectionID)
		return responseMsg{resp: resp, err: err}
	})
}

func (v *MainView) copyCurl() tea.Cmd {
	if err := v.copy(exporter.Curl(v.ws.Current())); err != nil {
		v.ws.SetError("Copy failed: " + err.Error())
		return nil
	}
	v.notification = "✓ Copied curl command"
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearNotificationMsg{}
	})
}

func (v *MainView) loadHistory() tea.Cmd {
	store := v.backend.History()
	if store == nil {
		v.ws.SetError("History is not available")
		return nil
	}
	return func() tea.Msg {
		entries, err := store.Recent(context.Background(), historyPageSize)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

func (v *MainView) focusPane(pane Pane) {
	v.tree.Blur()
	v.request.Blur()
	v.response.Blur()

	v.focusedPane = pane
	switch pane {
	case PaneCollections:
		v.tree.Focus()
	case PaneRequest:
		v.request.Focus()
	case PaneResponse:
		v.response.Focus()
	}
}

// SetSize sets the terminal size.
func (v *MainView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.help.Width = width
	v.updatePaneSizes()
}

func (v *MainView) panesHeight() int {
	return max(v.height-2, 2) // help bar and status bar
}

func (v *MainView) updatePaneSizes() {
	if v.width == 0 || v.height == 0 {
		return
	}

	// Sidebar takes a quarter of the width; request sits above response.
	sidebarWidth := min(max(v.width*25/100, 25), 60)
	rightWidth := v.width - sidebarWidth

	total := v.panesHeight()
	requestHeight := max(total*45/100, 8)
	responseHeight := total - requestHeight

	v.tree.SetSize(sidebarWidth, total)
	v.request.SetSize(rightWidth, requestHeight)
	v.response.SetSize(rightWidth, responseHeight)
}

// View renders the view.
func (v *MainView) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}

	v.request.SetRequest(v.ws.Current(), v.ws.CurrentIsSaved())

	var panes string
	switch {
	case v.dialog != nil:
		panes = v.overlay(v.dialog.View(min(60, v.width-4)))
	case v.history != nil:
		panes = v.overlay(v.history.View(min(80, v.width-4), v.panesHeight()-2))
	case v.help.ShowAll:
		panes = v.overlay(v.renderHelp())
	default:
		right := lipgloss.JoinVertical(lipgloss.Left, v.request.View(), v.response.View())
		panes = lipgloss.JoinHorizontal(lipgloss.Top, v.tree.View(), right)
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, v.renderHelpBar(), v.renderStatusBar())
}

func (v *MainView) overlay(box string) string {
	return lipgloss.Place(v.width, v.panesHeight(), lipgloss.Center, lipgloss.Center, box)
}

func (v *MainView) renderHelp() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(v.theme.Accent).Render("Keyboard shortcuts")
	full := v.help
	full.ShowAll = true
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(v.theme.Accent).
		Padding(0, 1).
		Render(title + "\n\n" + full.View(v.keys))
}

func (v *MainView) renderHelpBar() string {
	return lipgloss.NewStyle().
		Width(v.width).
		MaxHeight(1).
		Padding(0, 1).
		Render(v.help.ShortHelpView(v.keys.ShortHelp()))
}

func (v *MainView) renderStatusBar() string {
	ws := v.ws

	mode := lipgloss.NewStyle().Bold(true).Padding(0, 1).
		Foreground(lipgloss.Color("0")).Background(v.theme.Accent)
	label := "NORMAL"
	if pm, ok := ws.PendingMove(); ok {
		label = "MOVE " + pm.ItemName
		mode = mode.Background(v.theme.MoveSource)
	}

	var msg string
	switch {
	case ws.ErrorMessage() != "":
		msg = lipgloss.NewStyle().Foreground(v.theme.Error).Render("✗ " + ws.ErrorMessage())
	case v.notification != "":
		msg = lipgloss.NewStyle().Foreground(v.theme.Success).Render(v.notification)
	default:
		msg = ws.StatusMessage()
	}

	right := lipgloss.NewStyle().Foreground(v.theme.Muted).
		Render(fmt.Sprintf("%d collections", len(ws.Collections())))

	left := mode.Render(label) + " " + msg
	gap := v.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		return tui.Truncate(left, v.width)
	}
	return left + strings.Repeat(" ", gap) + right + " "
}

func (v *MainView) FocusedPane() Pane                          { return v.focusedPane }
func (v *MainView) FocusPane(pane Pane)                        { v.focusPane(pane) }
func (v *MainView) Dialog() *components.Dialog                 { return v.dialog }
func (v *MainView) HistoryList() *components.HistoryList       { return v.history }
func (v *MainView) CollectionTree() *components.CollectionTree { return v.tree }
func (v *MainView) RequestPanel() *components.RequestPanel     { return v.request }
func (v *MainView) ResponsePanel() *components.ResponsePanel   { return v.response }
func (v *MainView) Notification() string                       { return v.notification }
func (v *MainView) ShowingHelp() bool                          { return v.help.ShowAll }
func (v *MainView) Sending() bool                              { return v.sending }
