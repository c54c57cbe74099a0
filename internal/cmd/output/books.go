package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/suggest"
)

// Printer writes command results in one format. Table formats use the
// supplied table view; JSON and YAML encode the value itself.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer for format, auto-detecting when empty.
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if f == "" {
		f = DetectFormat("")
	}
	return &Printer{w: w, format: f}, nil
}

// Wide reports whether the wide table layout was requested.
func (p *Printer) Wide() bool {
	return p.format == FormatWide
}

// Table reports whether output is a table.
func (p *Printer) Table() bool {
	return p.format == FormatTable || p.format == FormatWide
}

// Print writes value, or view for table formats.
func (p *Printer) Print(value any, view Data) error {
	switch p.format {
	case FormatTable, FormatWide:
		return NewFormatter(p.format).Format(p.w, view)
	default:
		return NewFormatter(p.format).Format(p.w, value)
	}
}

// SearchPageData renders a page of catalog results.
func SearchPageData(page books.SearchPage, wide bool) Data {
	headers := []string{"#", "ID", "Title", "Authors"}
	if wide {
		headers = append(headers, "Link", "Description")
	}
	rows := make([][]string, 0, len(page.Items))
	for i, item := range page.Items {
		row := []string{
			strconv.Itoa(i + 1),
			item.ID,
			item.Title,
			joinOrDash(item.Authors),
		}
		if wide {
			row = append(row, orDash(item.InfoLink), orDash(Truncate(item.Description, 60)))
		}
		rows = append(rows, row)
	}
	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight},
	}
}

// PageFooter summarizes paging state below a results table.
func PageFooter(page books.SearchPage) string {
	if !page.HasMore {
		return fmt.Sprintf("%d of %d results", len(page.Items), page.Total)
	}
	return fmt.Sprintf("%d of %d results (next: --offset %d)", len(page.Items), page.Total, page.NextOffset)
}

// SavedData renders the saved collection.
func SavedData(records []books.SavedRecord, wide bool) Data {
	headers := []string{"ID", "Title", "Authors", "Saved"}
	if wide {
		headers = append(headers, "Link", "Image")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		saved := "-"
		if !r.SavedAt.IsZero() {
			saved = r.SavedAt.Local().Format("2006-01-02 15:04")
		}
		row := []string{r.ID, r.Title, joinOrDash(r.Authors), saved}
		if wide {
			row = append(row, orDash(r.InfoLink), orDash(r.Image))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

// DetailsData renders one volume as a property table.
func DetailsData(d books.Details) Data {
	rows := [][]string{
		{"ID", d.ID},
		{"Title", d.Title},
	}
	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}
	add("Subtitle", d.Subtitle)
	add("Authors", strings.Join(d.Authors, ", "))
	add("Publisher", d.Publisher)
	add("Published", d.PublishedDate)
	if d.PageCount > 0 {
		add("Pages", strconv.Itoa(d.PageCount))
	}
	add("Categories", strings.Join(d.Categories, ", "))
	add("Cover", d.Cover)
	add("Info", d.InfoLink)
	add("Preview", d.PreviewLink)
	add("Description", Truncate(d.Description, 300))
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// SuggestionsData renders authors first, then books.
func SuggestionsData(s suggest.Suggestions) Data {
	rows := make([][]string, 0, s.Len())
	for _, sg := range s.All() {
		detail := sg.SampleDescription
		if sg.Type == suggest.KindBook {
			detail = sg.Subtitle
		}
		rows = append(rows, []string{Title(string(sg.Type)), sg.Initials(), sg.Label(), orDash(detail), sg.Query()})
	}
	return Data{Headers: []string{"Type", "", "Suggestion", "Detail", "Query"}, Rows: rows}
}

// Truncate shortens s to n runes with a trailing ellipsis.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
