package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/artpar/restui/internal/app"
	"github.com/artpar/restui/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	var format string

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a Postman collection or curl commands as a new collection",
		Long: `Import a Postman collection (v2.0 or v2.1) or a file of curl commands.
The format is detected from the content unless --format is given.
Use - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := registry.Import(cmd.Context(), importer.Format(format), content)
			if err != nil {
				return fmt.Errorf("failed to import %s: %w", args[0], err)
			}

			return opts.withApp(cmd.Context(), func(a *app.App) error {
				added, err := a.Workspace().ImportCollection(cmd.Context(), result.Collection)
				if err != nil {
					return err
				}
				for _, w := range result.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s from %s (%d requests, %d folders)\n",
					added.Name(), result.SourceFormat, result.RequestCount, result.FolderCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(importer.FormatAuto),
		fmt.Sprintf("Import format: %s or one of %v", importer.FormatAuto, registry.ListFormats()))

	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
