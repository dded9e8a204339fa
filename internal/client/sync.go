package client

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/logging"
)

// NoContent is the description of an idea whose content could not be loaded.
const NoContent = "No description available."

const summaryLimit = 150

var (
	headingLine = regexp.MustCompile(`(?m)^#+\s*.*$`)
	listMarker  = regexp.MustCompile(`(?m)^[*-]\s+`)
	markdownSym = regexp.MustCompile("[`*_~\\[\\]()#+-]")
)

// Summarize flattens markdown into a one-line plain-text description of at
// most 150 characters plus an ellipsis. Heading lines are dropped.
func Summarize(content string) string {
	text := headingLine.ReplaceAllString(content, "")
	text = listMarker.ReplaceAllString(text, "")
	text = markdownSym.ReplaceAllString(text, "")

	var parts []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	text = strings.Join(parts, " ")

	r := []rune(text)
	if len(r) > summaryLimit {
		return string(r[:summaryLimit]) + "..."
	}
	return text
}

// Sync reconciles a Board with the API.
type Sync struct {
	client *Client
	board  *Board
	log    *slog.Logger
}

// NewSync creates a Sync. A nil logger discards warnings.
func NewSync(c *Client, b *Board, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sync{client: c, board: b, log: logger}
}

// Board returns the board being synchronized.
func (s *Sync) Board() *Board { return s.board }

// Refresh replaces the board with the server's entries, newest first.
// A failed content load keeps the idea with NoContent as its description.
func (s *Sync) Refresh(ctx context.Context) error {
	entries, err := s.client.List(ctx)
	if err != nil {
		return err
	}

	s.board.Clear()
	for _, e := range entries {
		s.board.Add(titleOf(e), s.describe(ctx, e), e.ID)
	}
	return nil
}

func (s *Sync) describe(ctx context.Context, e entry.Entry) string {
	text, err := s.client.Content(ctx, e.ID, "")
	if err != nil {
		s.log.WarnContext(ctx, "failed to load entry content", slog.Int64("id", e.ID), slog.Any("error", err))
		return NoContent
	}
	if summary := Summarize(text); summary != "" {
		return summary
	}
	return NoContent
}

// Save stores text on the server and adds the new entry to the board.
func (s *Sync) Save(ctx context.Context, text, title string) (int, error) {
	out, err := s.client.Save(ctx, text, title)
	if err != nil {
		return 0, err
	}
	localID, _ := s.board.Upsert(out.ID, out.Title, Summarize(text))
	return localID, nil
}

// Update sends new text for an idea and refreshes its card.
func (s *Sync) Update(ctx context.Context, localID int, text string) error {
	idea, err := s.bound(localID)
	if err != nil {
		return err
	}

	out, err := s.client.Update(ctx, idea.ServerID, text)
	if err != nil {
		return err
	}
	s.board.SetContent(localID, out.Title, Summarize(text))
	return nil
}

// Remove deletes the idea's entry on the server, then drops the card.
// The card stays when the server call fails.
func (s *Sync) Remove(ctx context.Context, localID int) error {
	idea, err := s.bound(localID)
	if err != nil {
		return err
	}

	if _, err := s.client.Delete(ctx, idea.ServerID); err != nil {
		return err
	}
	s.board.Remove(localID)
	return nil
}

func (s *Sync) bound(localID int) (Idea, error) {
	idea, ok := s.board.Get(localID)
	if !ok {
		return Idea{}, errors.NewNotFound("Idea not found")
	}
	if idea.ServerID == 0 {
		return Idea{}, errors.NewValidation("Idea has no server ID")
	}
	return idea, nil
}

func titleOf(e entry.Entry) string {
	if e.Title == "" {
		return entry.UntitledTitle
	}
	return e.Title
}
