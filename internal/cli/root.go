package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/config"
	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/tui"
	"github.com/artpar/restui/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	dataDir    string
	configPath string
	appOpts    []app.Option
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "restui",
		Short:   "restui - a terminal API client",
		Long:    "restui keeps HTTP requests in collections and folders and sends them from the terminal.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Data directory (default ~/.config/restui)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Settings file (default <data-dir>/config.yaml)")

	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newSortCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newSendCommand(opts))

	return cmd
}

// loadConfig resolves the data directory and reads the settings file.
func (o *rootOptions) loadConfig() (config.Config, error) {
	dataDir := o.dataDir
	if dataDir == "" {
		var err error
		dataDir, err = config.DefaultDataDir()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(dataDir, o.configPath)
}

// openApp loads the configuration and opens the application on it.
func (o *rootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, o.appOpts...)
}

// withApp opens the application, runs fn and closes it. Collections are only
// written by the workspace operations fn runs.
func (o *rootOptions) withApp(ctx context.Context, fn func(*app.App) error) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := o.openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close: %w", cerr)
		}
	}()
	return fn(a)
}

// findCollection matches name against collection IDs first, then names
// case-insensitively.
func findCollection(collections []*core.Collection, name string) (int, error) {
	for i, c := range collections {
		if c.ID() == name {
			return i, nil
		}
	}
	for i, c := range collections {
		if strings.EqualFold(c.Name(), name) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("collection %q not found", name)
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// runTUI starts the TUI application
func runTUI(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	return opts.withApp(ctx, func(a *app.App) error {
		viewOpts := []views.Option{views.WithTheme(tui.ThemeByName(a.Config().Theme))}

		if w := a.NewWatcher(); w != nil {
			if err := w.Start(ctx); err != nil {
				a.Logger().Warn("collection watcher disabled", "error", err)
			} else {
				defer w.Stop()
				viewOpts = append(viewOpts, views.WithChanges(w.Changes()))
			}
		}

		model := tuiModel{
			view: views.NewMainView(a, viewOpts...),
		}

		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		_, runErr := p.Run()
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", runErr)
		}
		if err := a.SaveAll(context.WithoutCancel(ctx)); err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to save collections: %w", err))
		}
		return runErr
	})
}
