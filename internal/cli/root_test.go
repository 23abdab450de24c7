package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/storage/filesystem"
	"github.com/artpar/restui/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDataDir returns a data directory holding the given collections.
func newDataDir(t *testing.T, collections ...*core.Collection) string {
	t.Helper()
	dir := t.TempDir()
	store, err := filesystem.NewCollectionStore(filepath.Join(dir, "collections"))
	require.NoError(t, err)
	for _, c := range collections {
		require.NoError(t, store.Save(context.Background(), c))
	}
	return dir
}

// apiCollection is API > [Users/ > [Zeta, Alpha], Health].
func apiCollection() *core.Collection {
	c := core.NewCollectionWithID("a-api", "API")
	users := c.AddFolder("Users")
	zeta := core.NewRequestDefinitionWithID("zeta", "Zeta", core.MethodPost, "https://example.com/users")
	alpha := core.NewRequestDefinitionWithID("alpha", "Alpha", core.MethodGet, "https://example.com/users/1")
	c.AddRequestTo(zeta, users.ID())
	c.AddRequestTo(alpha, users.ID())
	c.AddRequest(core.NewRequestDefinitionWithID("health", "Health", core.MethodGet, "https://example.com/health"))
	return c
}

func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func loadCollections(t *testing.T, dataDir string) []*core.Collection {
	t.Helper()
	store, err := filesystem.NewCollectionStore(filepath.Join(dataDir, "collections"))
	require.NoError(t, err)
	collections, failures, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, failures)
	return collections
}

func TestNewRootCommand(t *testing.T) {
	t.Run("creates root command", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.NotNil(t, cmd)
		assert.Equal(t, "restui", cmd.Use)
		assert.Equal(t, "1.0.0", cmd.Version)
	})

	t.Run("has data-dir and config flags", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		assert.NotNil(t, cmd.PersistentFlags().Lookup("data-dir"))
		assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	})

	t.Run("has subcommands", func(t *testing.T) {
		cmd := NewRootCommand("1.0.0")
		for _, name := range []string{"tree", "sort", "history", "export", "import", "send"} {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		}
	})

	t.Run("shows version", func(t *testing.T) {
		out, err := execute(t, t.TempDir(), "--version")
		require.NoError(t, err)
		assert.Contains(t, out, "test")
	})

	t.Run("shows help", func(t *testing.T) {
		out, err := execute(t, t.TempDir(), "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "restui")
		assert.Contains(t, out, "tree")
		assert.Contains(t, out, "send")
	})

	t.Run("rejects a broken settings file", func(t *testing.T) {
		dir := t.TempDir()
		cfgPath := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("history_limit: 0\n"), 0644))

		_, err := execute(t, dir, "--config", cfgPath, "tree")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "history_limit")
	})
}

func TestFindCollection(t *testing.T) {
	collections := []*core.Collection{
		core.NewCollectionWithID("one", "Payments"),
		core.NewCollectionWithID("two", "one"),
	}

	t.Run("matches IDs before names", func(t *testing.T) {
		i, err := findCollection(collections, "one")
		require.NoError(t, err)
		assert.Equal(t, 0, i)
	})

	t.Run("matches names case-insensitively", func(t *testing.T) {
		i, err := findCollection(collections, "payments")
		require.NoError(t, err)
		assert.Equal(t, 0, i)
	})

	t.Run("reports unknown collections", func(t *testing.T) {
		_, err := findCollection(collections, "missing")
		assert.EqualError(t, err, `collection "missing" not found`)
	})
}

func TestTuiModel(t *testing.T) {
	dataDir := newDataDir(t, apiCollection())
	opts := &rootOptions{dataDir: dataDir}
	a, err := opts.openApp(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(context.Background()) })

	t.Run("Init without a watcher returns nil", func(t *testing.T) {
		model := tuiModel{view: views.NewMainView(a)}
		assert.Nil(t, model.Init())
	})

	t.Run("Update keeps the wrapped view", func(t *testing.T) {
		model := tuiModel{view: views.NewMainView(a)}
		updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

		m, ok := updated.(tuiModel)
		require.True(t, ok)
		assert.Same(t, model.view, m.view)
		assert.Contains(t, m.View(), "API")
	})

	t.Run("q quits", func(t *testing.T) {
		model := tuiModel{view: views.NewMainView(a)}
		_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.QuitMsg{}, cmd())
	})
}

func TestCommandsOnlyWriteWhatTheyChange(t *testing.T) {
	const handWritten = `{"id":"c1","name":"Mine","notes":"hand written","items":[]}`

	setup := func(t *testing.T) (dataDir, path string) {
		t.Helper()
		dataDir = newDataDir(t, apiCollection())
		path = filepath.Join(dataDir, "collections", "mine.json")
		require.NoError(t, os.WriteFile(path, []byte(handWritten), 0644))
		return dataDir, path
	}

	for _, args := range [][]string{
		{"tree"},
		{"tree", "--json"},
		{"export", "Mine"},
		{"export", "Mine", "--format", "postman"},
		{"history"},
		{"sort", "API"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			dataDir, path := setup(t)

			_, err := execute(t, dataDir, args...)
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, handWritten, string(data))
		})
	}

	t.Run("export works when the collection file is read-only", func(t *testing.T) {
		dataDir, path := setup(t)
		require.NoError(t, os.Chmod(path, 0444))
		t.Cleanup(func() { os.Chmod(path, 0644) })

		out, err := execute(t, dataDir, "export", "Mine")
		require.NoError(t, err)
		assert.Contains(t, out, "# Collection: Mine")
	})
}
