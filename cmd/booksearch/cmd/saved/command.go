// Package saved provides commands for the saved-books collection.
package saved

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/cmd/output"
	"github.com/joshwilensky/Google-Books-Search/pkg/books"
)

// NewCommand creates the saved command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "saved",
		GroupID: "library",
		Aliases: []string{"library"},
		Short:   "Manage saved books",
		Long: `Manage the saved-books collection.

When api_base is configured the remote API is used first; if it cannot be
reached the local store is used instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newRemoveCommand(app))

	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}
			records, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}

			printer, err := output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
			if err != nil {
				return err
			}
			return printer.Print(records, output.SavedData(records, printer.Wide()))
		},
	}
}

func newAddCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "add <volume-id>",
		Aliases: []string{"save"},
		Short:   "Save a catalog volume",
		Example: `  booksearch saved add B1hSG45JCX4C`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			searcher, err := app.Searcher()
			if err != nil {
				return err
			}
			lib, err := app.Library()
			if err != nil {
				return err
			}

			item, err := searcher.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rec, err := lib.Save(cmd.Context(), books.FromItem(*item))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s)\n", rec.Title, rec.ID)
			return nil
		},
	}
}

func newRemoveCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a saved book",
		Long:    `Remove a saved book by id. Removing a book that is not saved succeeds.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}
			if err := lib.Delete(cmd.Context(), books.RefID(args[0])); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}
