package client

import (
	"log/slog"
	"strings"

	"github.com/hpungsan/ideastore/internal/logging"
)

// NoDescription replaces an empty description on Add.
const NoDescription = "No description provided."

const snippetLimit = 100

// Idea is one card on the board. LocalID is assigned by the board;
// ServerID is the entry ID, zero for ideas not yet saved.
type Idea struct {
	LocalID     int    `json:"localId"`
	ServerID    int64  `json:"serverId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Snippet returns the description cut to 100 characters for display.
func (i Idea) Snippet() string {
	r := []rune(i.Description)
	if len(r) <= snippetLimit {
		return i.Description
	}
	return string(r[:snippetLimit-3]) + "..."
}

// Board is the local view of the idea list. It has no network access and is
// not safe for concurrent use.
type Board struct {
	ideas  map[int]*Idea
	order  []int
	nextID int
	log    *slog.Logger
}

// NewBoard creates an empty board. A nil logger discards warnings.
func NewBoard(logger *slog.Logger) *Board {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Board{
		ideas:  make(map[int]*Idea),
		nextID: 1,
		log:    logger,
	}
}

// Add places a new idea on the board and returns its local ID.
// Blank titles and the literal "undefined" are rejected.
func (b *Board) Add(title, description string, serverID int64) (int, bool) {
	if strings.TrimSpace(title) == "" || title == "undefined" {
		b.log.Warn("idea title is empty or undefined")
		return 0, false
	}
	if strings.TrimSpace(description) == "" || description == "undefined" {
		description = NoDescription
	}

	id := b.nextID
	b.nextID++
	b.ideas[id] = &Idea{LocalID: id, ServerID: serverID, Title: title, Description: description}
	b.order = append(b.order, id)
	return id, true
}

// Upsert updates the idea bound to serverID, or adds it when none is.
func (b *Board) Upsert(serverID int64, title, description string) (int, bool) {
	for _, id := range b.order {
		if b.ideas[id].ServerID == serverID && serverID != 0 {
			return id, b.SetContent(id, title, description)
		}
	}
	return b.Add(title, description, serverID)
}

// SetContent overwrites the non-empty fields of an idea.
func (b *Board) SetContent(localID int, title, description string) bool {
	idea, ok := b.ideas[localID]
	if !ok {
		b.log.Warn("idea not found", slog.Int("local_id", localID))
		return false
	}
	if title != "" {
		idea.Title = title
	}
	if description != "" {
		idea.Description = description
	}
	return true
}

// Get returns a copy of one idea.
func (b *Board) Get(localID int) (Idea, bool) {
	idea, ok := b.ideas[localID]
	if !ok {
		return Idea{}, false
	}
	return *idea, true
}

// Remove deletes an idea and returns it.
func (b *Board) Remove(localID int) (Idea, bool) {
	idea, ok := b.ideas[localID]
	if !ok {
		b.log.Warn("idea not found", slog.Int("local_id", localID))
		return Idea{}, false
	}
	delete(b.ideas, localID)
	for i, id := range b.order {
		if id == localID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return *idea, true
}

// All returns copies of every idea in insertion order.
func (b *Board) All() []Idea {
	out := make([]Idea, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *b.ideas[id])
	}
	return out
}

// Len returns the number of ideas.
func (b *Board) Len() int { return len(b.ideas) }

// Clear removes every idea and restarts local IDs at 1.
func (b *Board) Clear() {
	b.ideas = make(map[int]*Idea)
	b.order = nil
	b.nextID = 1
}

// Search returns ideas whose title or description contains q, ignoring case.
// A blank query matches everything.
func (b *Board) Search(q string) []Idea {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Idea, 0)
	for _, idea := range b.All() {
		if q == "" ||
			strings.Contains(strings.ToLower(idea.Title), q) ||
			strings.Contains(strings.ToLower(idea.Description), q) {
			out = append(out, idea)
		}
	}
	return out
}
