package ops

import (
	"context"
	"log/slog"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID   int64
	Text string
}

// Update replaces an entry's content in place and re-derives its title.
// The blob ID never changes. Concurrent updates of one entry are not
// serialized, so title and content may come from different requests.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*WriteOutput, error) {
	if err := validateContent(input.Text, s.maxContentBytes, msgEmptyContent); err != nil {
		return nil, err
	}

	e, err := s.entries.GetByID(ctx, input.ID)
	if err != nil {
		return nil, storeErr(err, msgUpdateFailed)
	}

	data, err := entry.Compress(input.Text)
	if err != nil {
		return nil, errors.NewInternal(msgUpdateFailed, err)
	}

	label := e.BlobLabel
	if label == "" {
		label = entry.NewLabel()
	}

	obj, err := s.blobs.Update(ctx, e.BlobID, data, label)
	if err != nil {
		return nil, blobErr(err, msgUpdateFailed)
	}

	title := entry.ExtractTitle(input.Text)
	if err := s.entries.UpdateTitle(ctx, e.ID, title); err != nil {
		return nil, storeErr(err, msgUpdateFailed)
	}

	s.log.InfoContext(ctx, "entry updated", slog.Int64("id", e.ID), slog.String("blob_id", e.BlobID))

	return newWriteOutput(e.ID, e.BlobID, obj.ViewLink, title), nil
}
