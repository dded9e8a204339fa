package ops

import (
	"context"

	"github.com/hpungsan/ideastore/internal/entry"
)

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]entry.Entry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, storeErr(err, msgListFailed)
	}
	return entries, nil
}

// Get returns one entry's metadata.
func (s *Service) Get(ctx context.Context, id int64) (*entry.Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, msgGetFailed)
	}
	return e, nil
}
