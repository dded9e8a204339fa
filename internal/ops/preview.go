package ops

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/ideastore/internal/errors"
)

// Preview renders an entry's markdown content as HTML.
// Raw HTML in the source is escaped (goldmark's default, non-unsafe mode).
func (s *Service) Preview(ctx context.Context, id int64) (string, error) {
	out, err := s.Content(ctx, ContentInput{ID: id})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(out.Text), &buf); err != nil {
		return "", errors.NewInternal(msgPreviewFailed, err)
	}
	return buf.String(), nil
}
