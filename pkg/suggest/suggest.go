// Package suggest turns a page of catalog results into author and book
// suggestions, and drives debounced live suggestions for typed input.
package suggest

import (
	"strings"
	"unicode"

	"github.com/joshwilensky/Google-Books-Search/pkg/books"
	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// Kind is the suggestion variant.
type Kind string

const (
	// KindAuthor suggests searching by an author.
	KindAuthor Kind = "author"
	// KindBook suggests a specific volume.
	KindBook Kind = "book"
)

// Suggestion is either an author or a book suggestion, per Type.
type Suggestion struct {
	Type Kind `json:"type" yaml:"type"`

	// author fields
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	SampleDescription string `json:"sampleDescription,omitempty" yaml:"sampleDescription,omitempty"`

	// book fields
	ID                 string `json:"id,omitempty" yaml:"id,omitempty"`
	Title              string `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle           string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	ImageURL           string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	DescriptionSnippet string `json:"descriptionSnippet,omitempty" yaml:"descriptionSnippet,omitempty"`
}

// Query returns the search a selected suggestion should run.
func (s Suggestion) Query() string {
	if s.Type == KindAuthor {
		return `inauthor:"` + s.Name + `"`
	}
	return strings.TrimSpace(s.Title)
}

// Label is the primary display text.
func (s Suggestion) Label() string {
	if s.Type == KindAuthor {
		return s.Name
	}
	return s.Title
}

// Initials returns up to two upper-case initials of an author name.
func (s Suggestion) Initials() string {
	parts := strings.Fields(s.Label())
	if len(parts) == 0 {
		return "?"
	}
	var out []rune
	for _, p := range parts[:min(2, len(parts))] {
		r := []rune(p)[0]
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

// Suggestions groups author suggestions ahead of book suggestions.
type Suggestions struct {
	Authors []Suggestion `json:"authors" yaml:"authors"`
	Books   []Suggestion `json:"books" yaml:"books"`
}

// Empty returns a value with both lists empty and non-nil.
func Empty() Suggestions {
	return Suggestions{Authors: []Suggestion{}, Books: []Suggestion{}}
}

// Len is the total number of suggestions.
func (s Suggestions) Len() int {
	return len(s.Authors) + len(s.Books)
}

// All flattens the lists, authors first.
func (s Suggestions) All() []Suggestion {
	all := make([]Suggestion, 0, s.Len())
	all = append(all, s.Authors...)
	return append(all, s.Books...)
}

// Build derives suggestions from items. Authors are the first occurrence of
// each distinct trimmed name, compared case-sensitively; books keep item order
// and duplicates. Non-positive limits fall back to the defaults.
func Build(items []books.CatalogItem, maxAuthors, maxBooks int) Suggestions {
	if maxAuthors <= 0 {
		maxAuthors = constants.MaxAuthorSuggestions
	}
	if maxBooks <= 0 {
		maxBooks = constants.MaxBookSuggestions
	}

	out := Empty()
	seen := make(map[string]struct{})

	for _, item := range items {
		info := item.Volume.VolumeInfo
		authors := item.Authors
		if len(authors) == 0 {
			authors = info.Authors
		}

		if len(out.Books) < maxBooks {
			out.Books = append(out.Books, bookSuggestion(item, authors))
		}

		for _, a := range authors {
			name := strings.TrimSpace(a)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if len(out.Authors) < maxAuthors {
				out.Authors = append(out.Authors, Suggestion{
					Type:              KindAuthor,
					Name:              name,
					SampleDescription: constants.AuthorSuggestionDescription,
				})
			}
		}
	}
	return out
}

func bookSuggestion(item books.CatalogItem, authors []string) Suggestion {
	info := item.Volume.VolumeInfo

	title := item.Title
	if title == "" {
		title = info.Title
	}
	if title == "" {
		title = constants.UntitledTitle
	}

	subtitle := info.Publisher
	if len(authors) > 0 {
		subtitle = strings.Join(authors, ", ")
	}

	image := info.ImageLinks.ThumbnailOrSmall()
	if image == "" {
		image = item.ImageURL
	}

	desc := item.Description
	if desc == "" {
		desc = info.Description
	}

	return Suggestion{
		Type:               KindBook,
		ID:                 item.ID,
		Title:              title,
		Subtitle:           subtitle,
		ImageURL:           image,
		DescriptionSnippet: truncate(desc, constants.SnippetLength),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
