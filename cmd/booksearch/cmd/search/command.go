// Package search provides the catalog search command.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/cmd/output"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// NewCommand creates the search command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:     "search <query>",
		GroupID: "core",
		Aliases: []string{"find"},
		Short:   "Search the Google Books catalog",
		Long: `Search the Google Books catalog one page at a time.

The query supports the catalog's field prefixes such as inauthor:, intitle:
and isbn:. Use --offset with the value printed under the table to fetch the
next page.`,
		Example: `  booksearch search dune
  booksearch search 'inauthor:"Ursula K. Le Guin"' --limit 10
  booksearch search dune --offset 20 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 || limit > constants.MaxPageSize {
				return errors.NewValidationError("limit", limit,
					fmt.Sprintf("must be between 1 and %d", constants.MaxPageSize))
			}
			if offset < 0 {
				return errors.NewValidationError("offset", offset, "must not be negative")
			}
			return run(cmd, app, strings.Join(args, " "), offset, limit)
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "index of the first result")
	cmd.Flags().IntVarP(&limit, "limit", "n", constants.DefaultPageSize, "results per page (1-40)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, query string, offset, limit int) error {
	searcher, err := app.Searcher()
	if err != nil {
		return err
	}

	page, err := searcher.SearchPaged(cmd.Context(), query, offset, limit)
	if err != nil {
		return explain(err)
	}

	printer, err := output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
	if err != nil {
		return err
	}
	if err := printer.Print(page, output.SearchPageData(*page, printer.Wide())); err != nil {
		return err
	}
	if printer.Table() {
		fmt.Fprintln(cmd.OutOrStdout(), output.PageFooter(*page))
	}
	return nil
}

// explain adds a hint to catalog refusals the user can act on.
func explain(err error) error {
	switch {
	case errors.IsRateLimited(err):
		return fmt.Errorf("%w (the catalog is throttling requests; lower catalog_rate_limit or retry later)", err)
	case errors.IsUpstreamUnavailable(err):
		return fmt.Errorf("%w (the catalog is temporarily unavailable; retry later)", err)
	}
	return err
}
