package cli

import (
	"fmt"

	"github.com/artpar/restui/internal/app"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
	JSON  bool
	Clear bool
}

func newHistoryCommand(root *rootOptions) *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently sent requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd.Context(), func(a *app.App) error {
				return runHistory(cmd, a, opts)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output entries as JSON")
	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "Delete all history entries")

	return cmd
}

func runHistory(cmd *cobra.Command, a *app.App, opts *HistoryOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if opts.Clear {
		if err := a.History().Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(out, "History cleared")
		return nil
	}

	entries, err := a.History().Recent(ctx, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if opts.JSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No requests sent yet.")
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Display())
		if e.Failed() {
			line += "  (" + e.Error + ")"
		} else {
			line += fmt.Sprintf("  %dms", e.DurationMs)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
