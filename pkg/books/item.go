package books

import (
	"strings"
	"time"

	"github.com/joshwilensky/Google-Books-Search/pkg/constants"
)

// CatalogItem is a read-only record produced by the catalog.
// ImageURL is empty when the volume has no cover.
type CatalogItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	InfoLink    string   `json:"infoLink"`

	// Volume is the raw catalog record the item was projected from.
	Volume Volume `json:"-"`
}

// SearchPage is one page of catalog results.
// NextOffset is always the requested offset plus the requested page size.
type SearchPage struct {
	Items      []CatalogItem `json:"items"`
	NextOffset int           `json:"nextOffset"`
	HasMore    bool          `json:"hasMore"`
	Total      int           `json:"total"`
}

// NewSearchPage builds a page for a request at offset with pageSize.
func NewSearchPage(items []CatalogItem, offset, pageSize, total int) *SearchPage {
	if items == nil {
		items = []CatalogItem{}
	}
	next := offset + pageSize
	return &SearchPage{
		Items:      items,
		NextOffset: next,
		HasMore:    next < total,
		Total:      total,
	}
}

// EmptyPage is the result of a blank query.
func EmptyPage() *SearchPage {
	return &SearchPage{Items: []CatalogItem{}}
}

// Details is the expanded view of a single volume.
type Details struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Subtitle      string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Authors       []string `json:"authors" yaml:"authors"`
	Cover         string   `json:"cover,omitempty" yaml:"cover,omitempty"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Categories    []string `json:"categories" yaml:"categories"`
	Publisher     string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty" yaml:"publishedDate,omitempty"`
	PageCount     int      `json:"pageCount,omitempty" yaml:"pageCount,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty" yaml:"infoLink,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty" yaml:"previewLink,omitempty"`
}

// Details returns the detail view of v with a stripped description.
func (v Volume) Details() Details {
	info := v.VolumeInfo
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = constants.UntitledTitle
	}
	return Details{
		ID:            v.ID,
		Title:         title,
		Subtitle:      info.Subtitle,
		Authors:       orEmpty(info.Authors),
		Cover:         info.ImageLinks.Cover(),
		Description:   StripTags(info.Description),
		Categories:    orEmpty(info.Categories),
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		InfoLink:      v.infoLink(),
		PreviewLink:   info.PreviewLink,
	}
}

// SavedRecord is the persisted projection of a catalog item. ID is its identity.
type SavedRecord struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Authors     []string  `json:"authors" bson:"authors"`
	Image       string    `json:"image" bson:"image"`
	InfoLink    string    `json:"infoLink" bson:"infoLink"`
	Description string    `json:"description" bson:"description"`
	SavedAt     time.Time `json:"savedAt" bson:"savedAt"`

	// Alternate identifiers some backends key records by.
	VolumeID string `json:"volumeId,omitempty" bson:"-"`
	MongoID  string `json:"_id,omitempty" bson:"-"`
}

// Merge returns r with every non-empty field of update applied over it.
func (r SavedRecord) Merge(update SavedRecord) SavedRecord {
	out := r
	if update.Title != "" {
		out.Title = update.Title
	}
	if len(update.Authors) > 0 {
		out.Authors = update.Authors
	}
	if update.Image != "" {
		out.Image = update.Image
	}
	if update.InfoLink != "" {
		out.InfoLink = update.InfoLink
	}
	if update.Description != "" {
		out.Description = update.Description
	}
	if !update.SavedAt.IsZero() {
		out.SavedAt = update.SavedAt
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
