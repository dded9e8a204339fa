package ops

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/hpungsan/ideastore/internal/blob"
	"github.com/hpungsan/ideastore/internal/errors"
)

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Delete removes the blob, then the metadata row.
// A blob that is already gone is logged and does not stop the row deletion.
func (s *Service) Delete(ctx context.Context, id int64) (*DeleteOutput, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgDeleteFailed)
	}

	if e.BlobID != "" {
		if err := s.blobs.Delete(ctx, e.BlobID); err != nil {
			if !stderrors.Is(err, blob.ErrNotFound) {
				return nil, errors.NewRemoteBlob(msgBlobDeleteFailed, err)
			}
			s.log.WarnContext(ctx, "blob already missing; deleting row anyway",
				slog.Int64("id", id),
				slog.String("blob_id", e.BlobID),
			)
		}
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		return nil, storeErr(err, msgDeleteFailed)
	}

	s.log.InfoContext(ctx, "entry deleted", slog.Int64("id", id))

	return &DeleteOutput{
		Success: true,
		Message: fmt.Sprintf("Entry %d deleted.", id),
	}, nil
}
