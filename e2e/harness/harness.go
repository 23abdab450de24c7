// Package harness provides end-to-end testing utilities for restui: an
// isolated data directory, an optional HTTP test server, and runners that
// drive the CLI and the TUI in-process.
package harness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/storage/filesystem"
)

// E2EHarness is the main test orchestrator.
type E2EHarness struct {
	t       *testing.T
	server  *httptest.Server
	dataDir string
	timeout time.Duration
}

// Config configures the harness.
type Config struct {
	ServerHandlers map[string]http.HandlerFunc
	Timeout        time.Duration // Default: 5 seconds
}

// New creates a new E2E harness with an empty data directory.
func New(t *testing.T, cfg Config) *E2EHarness {
	t.Helper()

	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	h := &E2EHarness{
		t:       t,
		dataDir: t.TempDir(),
		timeout: cfg.Timeout,
	}

	if len(cfg.ServerHandlers) > 0 {
		mux := http.NewServeMux()
		for pattern, handler := range cfg.ServerHandlers {
			mux.HandleFunc(pattern, handler)
		}
		h.server = httptest.NewServer(mux)
		t.Cleanup(h.server.Close)
	}

	return h
}

// ServerURL returns the test server URL.
func (h *E2EHarness) ServerURL() string {
	if h.server == nil {
		return ""
	}
	return h.server.URL
}

func (h *E2EHarness) DataDir() string        { return h.dataDir }
func (h *E2EHarness) CollectionsDir() string { return filepath.Join(h.dataDir, "collections") }
func (h *E2EHarness) Timeout() time.Duration { return h.timeout }
func (h *E2EHarness) T() *testing.T          { return h.t }

// SeedCollections writes collections into the data directory before a runner
// opens it.
func (h *E2EHarness) SeedCollections(collections ...*core.Collection) {
	h.t.Helper()
	store := h.store()
	for _, c := range collections {
		if err := store.Save(context.Background(), c); err != nil {
			h.t.Fatalf("failed to seed collection %s: %v", c.Name(), err)
		}
	}
}

// StoredCollections reads back what is on disk, bypassing any open session.
func (h *E2EHarness) StoredCollections() []*core.Collection {
	h.t.Helper()
	collections, failures, err := h.store().LoadAll(context.Background())
	if err != nil {
		h.t.Fatalf("failed to load collections: %v", err)
	}
	if len(failures) > 0 {
		h.t.Fatalf("unreadable collection files: %v", failures)
	}
	return collections
}

// StoredCollection returns the stored collection with the given name.
func (h *E2EHarness) StoredCollection(name string) *core.Collection {
	h.t.Helper()
	for _, c := range h.StoredCollections() {
		if c.Name() == name {
			return c
		}
	}
	h.t.Fatalf("no stored collection named %q", name)
	return nil
}

func (h *E2EHarness) store() *filesystem.CollectionStore {
	h.t.Helper()
	store, err := filesystem.NewCollectionStore(h.CollectionsDir())
	if err != nil {
		h.t.Fatalf("failed to open collection store: %v", err)
	}
	return store
}

// CLI returns a CLI runner for this harness.
func (h *E2EHarness) CLI() *CLIRunner {
	return &CLIRunner{harness: h}
}

// TUI returns a TUI runner for this harness.
func (h *E2EHarness) TUI() *TUIRunner {
	return &TUIRunner{harness: h}
}
