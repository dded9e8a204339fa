package ops

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	Text string

	// Title overrides the derived title when non-blank
	Title string
}

// Save compresses and uploads the text, then records its metadata.
//
// Order: validate, compress, upload, derive title, insert. A failed upload
// leaves the repository untouched. A failed insert after a successful upload
// leaves an orphaned blob, which is logged and not cleaned up.
func (s *Service) Save(ctx context.Context, input SaveInput) (*WriteOutput, error) {
	if err := validateContent(input.Text, s.maxContentBytes, msgEmptyInput); err != nil {
		return nil, err
	}

	data, err := entry.Compress(input.Text)
	if err != nil {
		return nil, errors.NewInternal(msgSaveFailed, err)
	}

	label := entry.NewLabel()
	obj, err := s.blobs.Upload(ctx, label, data)
	if err != nil {
		return nil, errors.NewRemoteBlob(msgSaveFailed, err)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = entry.ExtractTitle(input.Text)
	}

	tags := append([]string(nil), s.defaultTags...)
	e, err := s.entries.Insert(ctx, obj.ID, label, title, tags)
	if err != nil {
		s.log.WarnContext(ctx, "orphaned blob after failed insert",
			slog.String("blob_id", obj.ID),
			slog.String("label", label),
			slog.Any("error", err),
		)
		return nil, errors.NewStoreUnavailable(msgSaveFailed, err)
	}

	s.log.InfoContext(ctx, "entry saved",
		slog.Int64("id", e.ID),
		slog.String("blob_id", obj.ID),
		slog.Int("compressed_bytes", len(data)),
	)

	return newWriteOutput(e.ID, obj.ID, obj.ViewLink, title), nil
}
