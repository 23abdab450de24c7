// Package app wires configuration, storage, history and the HTTP client into
// the workspace the TUI and CLI operate on.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/artpar/restui/internal/config"
	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/history"
	"github.com/artpar/restui/internal/history/sqlite"
	"github.com/artpar/restui/internal/logging"
	"github.com/artpar/restui/internal/protocol/http"
	"github.com/artpar/restui/internal/storage/filesystem"
	"github.com/artpar/restui/internal/workspace"
)

// Hook names
const (
	HookPreRequest   = "pre_request"
	HookPostResponse = "post_response"
)

// Requester executes a request definition.
type Requester interface {
	Execute(ctx context.Context, req *core.RequestDefinition) (*http.Response, error)
}

// HookHandler is a function that handles a hook event. Pre-request handlers
// receive and return a *core.RequestDefinition, post-response handlers a
// *http.Response.
type HookHandler func(ctx context.Context, data any) (any, error)

// App is the main application container with dependency injection.
type App struct {
	config    config.Config
	logger    *slog.Logger
	requester Requester
	history   history.Store
	store     *filesystem.CollectionStore
	workspace *workspace.Workspace
	failures  []filesystem.LoadFailure
	hooks     map[string][]HookHandler
	closers   []io.Closer
}

// Option is a function that configures the App.
type Option func(*App)

// WithRequester replaces the HTTP client.
func WithRequester(r Requester) Option {
	return func(a *App) {
		a.requester = r
	}
}

// WithHistory replaces the sqlite history store. The caller keeps ownership.
func WithHistory(store history.Store) Option {
	return func(a *App) {
		a.history = store
	}
}

// WithLogger replaces the log file logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// Open creates the data directories, loads every collection and opens the
// history database. When the collections directory holds nothing loadable the
// sample collection is written and opened instead.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	a := &App{
		config: cfg,
		hooks:  make(map[string][]HookHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	if cfg.UserAgent != "" {
		a.RegisterHook(HookPreRequest, userAgentHook(cfg.UserAgent))
	}

	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}

	if a.logger == nil {
		level, err := config.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logger, closer, err := logging.Open(cfg.LogFile, level)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	}

	store, err := filesystem.NewCollectionStore(cfg.CollectionsDir, filesystem.WithLogger(a.logger))
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.store = store

	collections, failures, err := store.LoadAll(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.failures = failures
	if len(collections) == 0 && len(failures) == 0 {
		sample := filesystem.SampleCollection()
		if err := store.Save(ctx, sample); err != nil {
			a.logger.Warn("could not write sample collection", "error", err)
		}
		collections = append(collections, sample)
	}

	if a.history == nil {
		hist, err := sqlite.New(cfg.HistoryDB)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		a.history = hist
		a.closers = append(a.closers, hist)
	}

	if a.requester == nil {
		a.requester = http.NewClient(
			http.WithTimeout(cfg.RequestTimeout),
			http.WithFollowRedirects(cfg.FollowRedirects),
		)
	}

	a.workspace = workspace.New(collections,
		workspace.WithStore(store),
		workspace.WithLogger(a.logger),
	)
	if len(failures) > 0 {
		a.workspace.SetError(fmt.Sprintf("Failed to load %d collection file(s)", len(failures)))
	}

	a.logger.Info("app started", "collections", len(collections), "data_dir", cfg.DataDir)
	return a, nil
}

func (a *App) Config() config.Config                  { return a.config }
func (a *App) Logger() *slog.Logger                   { return a.logger }
func (a *App) Workspace() *workspace.Workspace        { return a.workspace }
func (a *App) Store() *filesystem.CollectionStore     { return a.store }
func (a *App) History() history.Store                 { return a.history }
func (a *App) LoadFailures() []filesystem.LoadFailure { return a.failures }

// NewWatcher returns a watcher on the collections directory, or nil when
// watching is disabled.
func (a *App) NewWatcher() *filesystem.Watcher {
	if !a.config.WatchCollections {
		return nil
	}
	return filesystem.NewWatcher(a.config.CollectionsDir, filesystem.WithWatcherLogger(a.logger))
}

// LoadCollection reads a collection file reported by the watcher.
func (a *App) LoadCollection(ctx context.Context, path string) (*core.Collection, error) {
	return a.store.Load(ctx, path)
}

// Send executes req and records the attempt in history, including failures.
// A history write error is logged but does not fail the send.
func (a *App) Send(ctx context.Context, req *core.RequestDefinition, collectionID string) (*http.Response, error) {
	out, err := a.ExecuteHooks(ctx, HookPreRequest, req)
	if err != nil {
		return nil, err
	}
	prepared, ok := out.(*core.RequestDefinition)
	if !ok {
		return nil, fmt.Errorf("pre-request hook returned %T", out)
	}

	entry := history.NewEntry(prepared)
	entry.CollectionID = collectionID

	resp, sendErr := a.requester.Execute(ctx, prepared)
	if sendErr != nil {
		entry.Error = sendErr.Error()
		a.logger.Warn("request failed", "method", prepared.Method(), "url", prepared.URL(), "error", sendErr)
	} else {
		entry.StatusCode = resp.StatusCode
		entry.StatusText = resp.StatusText
		entry.DurationMs = resp.Duration.Milliseconds()
		a.logger.Info("request sent", "method", prepared.Method(), "url", prepared.URL(), "status", resp.StatusCode)
	}

	if _, err := history.Record(ctx, a.history, entry, a.config.HistoryLimit); err != nil {
		a.logger.Error("failed to record history", "error", err)
	}

	if sendErr != nil {
		return nil, sendErr
	}

	out, err = a.ExecuteHooks(ctx, HookPostResponse, resp)
	if err != nil {
		return nil, err
	}
	final, ok := out.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("post-response hook returned %T", out)
	}
	return final, nil
}

// RegisterHook registers a hook handler for the given hook name.
func (a *App) RegisterHook(hook string, handler HookHandler) {
	a.hooks[hook] = append(a.hooks[hook], handler)
}

// GetHooks returns all handlers for the given hook.
func (a *App) GetHooks(hook string) []HookHandler {
	return a.hooks[hook]
}

// ExecuteHooks executes all handlers for the given hook in order.
func (a *App) ExecuteHooks(ctx context.Context, hook string, data any) (any, error) {
	result := data
	for _, handler := range a.hooks[hook] {
		var err error
		result, err = handler(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("%s hook failed: %w", hook, err)
		}
	}
	return result, nil
}

// userAgentHook adds a User-Agent header to requests that do not enable one.
// The request in the tree is left untouched.
func userAgentHook(agent string) HookHandler {
	return func(ctx context.Context, data any) (any, error) {
		req, ok := data.(*core.RequestDefinition)
		if !ok {
			return data, nil
		}
		for _, h := range req.Headers() {
			if h.Enabled && strings.EqualFold(h.Key, "User-Agent") {
				return req, nil
			}
		}
		out := req.Copy()
		out.AddHeader("User-Agent", agent)
		return out, nil
	}
}

// SaveAll writes every open collection. Only the TUI does this, on exit;
// one-shot commands persist through the workspace operations they run.
func (a *App) SaveAll(ctx context.Context) error {
	return a.workspace.SaveAll(ctx)
}

// Close releases the history database and log file. It never writes
// collections.
func (a *App) Close(ctx context.Context) error {
	a.logger.Info("app closed")
	return a.closeAll()
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
