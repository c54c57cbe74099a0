// Package books defines the catalog and saved-book data model shared by the
// search, library and suggest packages.
package books

// VolumesResponse is the body of a catalog query.
type VolumesResponse struct {
	Kind       string   `json:"kind,omitempty"`
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is a catalog record as returned on the wire.
type Volume struct {
	ID         string     `json:"id"`
	SelfLink   string     `json:"selfLink,omitempty"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the descriptive fields of a Volume.
type VolumeInfo struct {
	Title               string               `json:"title,omitempty"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	Categories          []string             `json:"categories,omitempty"`
	ImageLinks          *ImageLinks          `json:"imageLinks,omitempty"`
	Language            string               `json:"language,omitempty"`
	PreviewLink         string               `json:"previewLink,omitempty"`
	InfoLink            string               `json:"infoLink,omitempty"`
	CanonicalVolumeLink string               `json:"canonicalVolumeLink,omitempty"`
}

// IndustryIdentifier is an ISBN or similar identifier.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks lists cover images by size.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
}

// ThumbnailOrSmall returns the thumbnail, falling back to the small thumbnail.
func (l *ImageLinks) ThumbnailOrSmall() string {
	if l == nil {
		return ""
	}
	if l.Thumbnail != "" {
		return l.Thumbnail
	}
	return l.SmallThumbnail
}

// Cover returns the preferred cover image: thumbnail, small, then small thumbnail.
func (l *ImageLinks) Cover() string {
	if l == nil {
		return ""
	}
	switch {
	case l.Thumbnail != "":
		return l.Thumbnail
	case l.Small != "":
		return l.Small
	default:
		return l.SmallThumbnail
	}
}

// Item projects v onto the read-only CatalogItem.
func (v Volume) Item() CatalogItem {
	info := v.VolumeInfo
	authors := info.Authors
	if authors == nil {
		authors = []string{}
	}
	return CatalogItem{
		ID:          v.ID,
		Title:       info.Title,
		Authors:     authors,
		Description: info.Description,
		ImageURL:    info.ImageLinks.ThumbnailOrSmall(),
		InfoLink:    v.infoLink(),
		Volume:      v,
	}
}

// infoLink prefers the info link, then the self link, then the preview link.
func (v Volume) infoLink() string {
	switch {
	case v.VolumeInfo.InfoLink != "":
		return v.VolumeInfo.InfoLink
	case v.SelfLink != "":
		return v.SelfLink
	default:
		return v.VolumeInfo.PreviewLink
	}
}
