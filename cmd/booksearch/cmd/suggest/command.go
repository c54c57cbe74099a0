// Package suggest provides the typeahead suggestion command.
package suggest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshwilensky/Google-Books-Search/cmd/application"
	"github.com/joshwilensky/Google-Books-Search/internal/cmd/output"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
	"github.com/joshwilensky/Google-Books-Search/pkg/suggest"
)

// NewCommand creates the suggest command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:     "suggest [text]",
		GroupID: "core",
		Short:   "Suggest authors and books for partial input",
		Long: `Suggest authors and books for a partial query, the way a search box
would while typing.

With --interactive every line read from stdin is treated as the current
content of the search box. Suggestions are printed once input has been
quiet for the debounce window; lines replaced before then are never
searched.`,
		Example: `  booksearch suggest "frank her"
  booksearch suggest --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return runInteractive(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runOnce(cmd, app, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read input lines from stdin")

	return cmd
}

func runOnce(cmd *cobra.Command, app application.Application, text string) error {
	searcher, err := app.Searcher()
	if err != nil {
		return err
	}

	s := suggest.Empty()
	if q := strings.TrimSpace(text); len([]rune(q)) >= constants.MinSuggestChars {
		page, err := searcher.SearchPaged(cmd.Context(), q, 0, constants.SuggestionFetchSize)
		if err != nil {
			return err
		}
		s = suggest.Build(page.Items, constants.MaxAuthorSuggestions, constants.MaxBookSuggestions)
	}

	printer, err := output.NewPrinter(cmd.OutOrStdout(), app.OutputFormat())
	if err != nil {
		return err
	}
	return printer.Print(s, output.SuggestionsData(s))
}

func runInteractive(ctx context.Context, app application.Application, in io.Reader, out io.Writer) error {
	searcher, err := app.Searcher()
	if err != nil {
		return err
	}
	printer, err := output.NewPrinter(out, app.OutputFormat())
	if err != nil {
		return err
	}

	var (
		mu        sync.Mutex
		delivered uint64
		signal    = make(chan struct{}, 1)
	)
	session := suggest.NewSession(searcher, func(r suggest.Result) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "> %s\n", r.Query)
		if err := printer.Print(r.Suggestions, output.SuggestionsData(r.Suggestions)); err != nil {
			app.Logger().Warn().Err(err).Msg("Failed to print suggestions")
		}
		delivered = r.Generation
		select {
		case signal <- struct{}{}:
		default:
		}
	},
		suggest.WithWindow(app.Debounce()),
		suggest.WithSessionLogger(app.Logger()),
	)
	defer session.Close()

	var last uint64
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		last = session.Input(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Wait for the last line's suggestions before exiting.
	deadline := time.After(app.Debounce() + app.RequestTimeout())
	for {
		mu.Lock()
		done := delivered >= last
		mu.Unlock()
		if done {
			return nil
		}
		select {
		case <-signal:
		case <-deadline:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
