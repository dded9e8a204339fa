package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
)

// Load downloads and decompresses a blob by its external ID.
func (s *Service) Load(ctx context.Context, blobID string) (string, error) {
	blobID = strings.TrimSpace(blobID)
	if blobID == "" {
		return "", errors.NewValidation(msgInvalidBlobID)
	}

	data, err := s.blobs.Download(ctx, blobID)
	if err != nil {
		return "", blobErr(err, msgLoadFailed)
	}

	text, err := entry.Decompress(data)
	if err != nil {
		return "", errors.NewInternal(msgLoadFailed, err)
	}
	return text, nil
}

// ContentInput addresses an entry by ID or by exact title. ID wins when both are set.
type ContentInput struct {
	ID    int64
	Title string
}

// ContentOutput is an entry's metadata together with its decompressed text.
type ContentOutput struct {
	ID     int64  `json:"id"`
	BlobID string `json:"blobId"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// Content resolves an entry and returns its text.
// Title lookup scans List in newest-first order and takes the first exact match.
func (s *Service) Content(ctx context.Context, input ContentInput) (*ContentOutput, error) {
	var e *entry.Entry

	switch {
	case input.ID != 0:
		found, err := s.entries.GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeErr(err, msgGetFailed)
		}
		e = found
	case input.Title != "":
		all, err := s.entries.List(ctx)
		if err != nil {
			return nil, storeErr(err, msgListFailed)
		}
		for i := range all {
			if all[i].Title == input.Title {
				e = &all[i]
				break
			}
		}
		if e == nil {
			return nil, errors.NewNotFound(msgEntryNotFound)
		}
	default:
		return nil, errors.NewValidation("Either id or title is required")
	}

	if e.BlobID == "" {
		return nil, errors.NewNotFound(msgFileNotFound)
	}

	text, err := s.Load(ctx, e.BlobID)
	if err != nil {
		return nil, err
	}

	return &ContentOutput{ID: e.ID, BlobID: e.BlobID, Title: e.Title, Text: text}, nil
}
