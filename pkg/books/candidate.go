package books

import (
	"strings"
	"time"

	"github.com/joshwilensky/Google-Books-Search/pkg/errors"
)

// CandidateKind tags the variant held by a Candidate.
type CandidateKind int

const (
	// KindRawVolume is a catalog item that has not been normalized yet.
	KindRawVolume CandidateKind = iota + 1
	// KindRecord is an already-normalized (or record-shaped) SavedRecord.
	KindRecord
)

// String returns the kind name.
func (k CandidateKind) String() string {
	switch k {
	case KindRawVolume:
		return "raw_volume"
	case KindRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Candidate is the input to a save: exactly one of a catalog item or a record.
type Candidate struct {
	kind   CandidateKind
	item   CatalogItem
	record SavedRecord
}

// FromItem wraps a catalog item.
func FromItem(item CatalogItem) Candidate {
	return Candidate{kind: KindRawVolume, item: item}
}

// FromVolume wraps a raw catalog volume.
func FromVolume(v Volume) Candidate {
	return FromItem(v.Item())
}

// FromRecord wraps a record-shaped value.
func FromRecord(r SavedRecord) Candidate {
	return Candidate{kind: KindRecord, record: r}
}

// Kind returns the variant tag.
func (c Candidate) Kind() CandidateKind {
	return c.kind
}

// Normalize converts c into a canonical SavedRecord stamped with now.
// Normalizing a normalized record yields the same record apart from SavedAt.
func Normalize(c Candidate, now time.Time) (SavedRecord, error) {
	var rec SavedRecord
	switch c.kind {
	case KindRawVolume:
		info := c.item.Volume.VolumeInfo
		image := c.item.ImageURL
		if cover := info.ImageLinks.Cover(); cover != "" {
			image = cover
		}
		rec = SavedRecord{
			ID:          strings.TrimSpace(c.item.ID),
			Title:       c.item.Title,
			Authors:     c.item.Authors,
			Image:       image,
			InfoLink:    c.item.InfoLink,
			Description: c.item.Description,
		}
	case KindRecord:
		r := c.record
		rec = SavedRecord{
			ID:          firstNonEmpty(r.ID, r.VolumeID, r.MongoID),
			Title:       r.Title,
			Authors:     r.Authors,
			Image:       r.Image,
			InfoLink:    r.InfoLink,
			Description: r.Description,
		}
	default:
		return SavedRecord{}, errors.NewValidationError("candidate", c.kind, "empty candidate")
	}

	if rec.ID == "" {
		return SavedRecord{}, errors.NewValidationError("id", nil, "candidate has no identifier")
	}
	rec.Title = strings.TrimSpace(rec.Title)
	rec.Authors = orEmpty(rec.Authors)
	rec.Description = StripTags(rec.Description)
	rec.SavedAt = now.UTC()
	return rec, nil
}

// Ref identifies a record to delete, either by bare id or by a record's fields.
type Ref struct {
	ID                  string
	MongoID             string
	VolumeID            string
	IndustryIdentifiers []IndustryIdentifier
}

// RefID refers to a record by its id.
func RefID(id string) Ref {
	return Ref{ID: id}
}

// RefRecord refers to a saved record.
func RefRecord(r SavedRecord) Ref {
	return Ref{ID: r.ID, MongoID: r.MongoID, VolumeID: r.VolumeID}
}

// RefVolume refers to a catalog volume.
func RefVolume(v Volume) Ref {
	return Ref{ID: v.ID, IndustryIdentifiers: v.VolumeInfo.IndustryIdentifiers}
}

// Resolve picks the id: ID, then MongoID, then VolumeID, then the first
// industry identifier.
func (r Ref) Resolve() (string, error) {
	var industry string
	if len(r.IndustryIdentifiers) > 0 {
		industry = r.IndustryIdentifiers[0].Identifier
	}
	id := firstNonEmpty(r.ID, r.MongoID, r.VolumeID, industry)
	if id == "" {
		return "", errors.NewValidationError("id", nil, "unable to determine book id")
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
