package cli

import (
	"fmt"
	"os"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/exporter"
	"github.com/spf13/cobra"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	registry := exporter.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "export COLLECTION",
		Short: "Export a collection as curl commands or a Postman collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(a *app.App) error {
				collections := a.Workspace().Collections()
				i, err := findCollection(collections, args[0])
				if err != nil {
					return err
				}

				result, err := registry.Export(cmd.Context(), exporter.Format(format), collections[i])
				if err != nil {
					return err
				}

				if output == "" {
					_, err := cmd.OutOrStdout().Write(result.Content)
					return err
				}
				if err := os.WriteFile(output, result.Content, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", collections[i].Name(), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatCurl), fmt.Sprintf("Export format %v", registry.ListFormats()))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}
