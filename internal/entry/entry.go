package entry

import (
	"encoding/json"
	"fmt"
	"time"
)

// DefaultTags are applied to new entries when no tags are configured.
var DefaultTags = []string{"idea"}

// DefaultMaxContentBytes bounds the size of a single entry body.
const DefaultMaxContentBytes = 5 << 20

// Entry is the metadata row for one stored idea.
// The content itself lives in the blob store, referenced by BlobID.
type Entry struct {
	// ID is the numeric identifier assigned by the repository
	ID int64

	// BlobID is the external identifier returned by the blob store at creation
	BlobID string

	// BlobLabel is the opaque label assigned at creation (entry-<ulid>.gz)
	BlobLabel string

	// Title is derived from the first line of content unless overridden on save
	Title string

	// Tags are set at creation and never changed by updates
	Tags []string

	CreatedAt time.Time
}

// row is the wire shape of an Entry. Column names are kept from the
// original Drive-backed deployment so existing clients keep working.
type row struct {
	ID        int64     `json:"id"`
	Filename  string    `json:"filename"`
	Label     string    `json:"gdrive_filename"`
	Title     string    `json:"title"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// MarshalJSON renders the entry as a metadata row with tags as a JSON string.
func (e Entry) MarshalJSON() ([]byte, error) {
	tags, err := EncodeTags(e.Tags)
	if err != nil {
		return nil, err
	}
	return json.Marshal(row{
		ID:        e.ID,
		Filename:  e.BlobID,
		Label:     e.BlobLabel,
		Title:     e.Title,
		Tags:      tags,
		CreatedAt: e.CreatedAt,
	})
}

// UnmarshalJSON parses a metadata row.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var r row
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	tags, err := DecodeTags(r.Tags)
	if err != nil {
		return err
	}
	*e = Entry{
		ID:        r.ID,
		BlobID:    r.Filename,
		BlobLabel: r.Label,
		Title:     r.Title,
		Tags:      tags,
		CreatedAt: r.CreatedAt,
	}
	return nil
}

// EncodeTags serializes tags the way they are persisted: a JSON array in a text column.
func EncodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(data), nil
}

// DecodeTags parses a persisted tag column. Empty input yields nil.
func DecodeTags(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}
