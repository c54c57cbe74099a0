// Package show provides the volume detail command.
package show

import (
	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/cmd/output"
)

// NewCommand creates the show command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "show <volume-id>",
		GroupID: "core",
		Aliases: []string{"get"},
		Short:   "Show the details of one catalog volume",
		Example: `  booksearch show B1hSG45JCX4C
  booksearch show B1hSG45JCX4C -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, err := app.Searcher()
			if err != nil {
				return err
			}

			item, err := searcher.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			details := item.Volume.Details()
			printer, err := output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
			if err != nil {
				return err
			}
			return printer.Print(details, output.DetailsData(details))
		},
	}
}
