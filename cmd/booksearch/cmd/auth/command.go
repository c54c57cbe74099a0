// Package auth provides the catalog credential status command.
package auth

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/auth"
	"github.com/joshwilensky/Google-Books-Search/internal/cmd/output"
)

// NewCommand creates the auth command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Inspect the catalog API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(NewStatusCommand(app))
	return cmd
}

// NewStatusCommand creates the auth status subcommand using app context.
func NewStatusCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a usable catalog API key is configured",
		Long: `Display the state of the Google Books API key.

The check is local: it reports whether a key is set and whether it has the
shape of a Google API key. Values that look like GitHub tokens are never
sent. The catalog is searched anonymously when no usable key is set, and a
key the catalog rejects is dropped for the rest of the run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := auth.NewChecker().Check(app.CatalogKey())

			masked := "-"
			if status.APIKey != nil {
				masked = status.APIKey.Masked
			}
			view := output.Data{
				Headers: []string{"Variable", "State", "Key", "Details"},
				Rows:    [][]string{{auth.EnvVar, status.State.String(), masked, status.Summary}},
			}

			printer, err := output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
			if err != nil {
				return err
			}
			if err := printer.Print(status, view); err != nil {
				return err
			}
			if printer.Table() && !status.Usable() {
				fmt.Fprintln(cmd.OutOrStdout(), "Searches will run without a key.")
			}
			return nil
		},
	}
}
