package cli

import (
	"fmt"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/workspace"
	"github.com/spf13/cobra"
)

func newSortCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort COLLECTION",
		Short: "Sort a collection, folders first then by name, and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				ws := a.Workspace()
				i, err := findCollection(ws.Collections(), args[0])
				if err != nil {
					return err
				}

				ws.Select(workspace.Selection{Collection: i, Item: workspace.HeaderSelected})
				if _, err := ws.Sort(cmd.Context()); err != nil {
					return fmt.Errorf("failed to sort: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), ws.StatusMessage())
				return nil
			})
		},
	}
}
