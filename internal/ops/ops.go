package ops

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hpungsan/ideastore/internal/blob"
	"github.com/hpungsan/ideastore/internal/entry"
	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/logging"
)

// Caller-facing messages. Existing clients match on these strings.
const (
	msgEmptyInput       = "Empty or invalid input"
	msgEmptyContent     = "Empty or invalid content"
	msgInvalidID        = "Invalid ID"
	msgInvalidBlobID    = "Invalid file ID"
	msgEntryNotFound    = "Entry not found"
	msgFileNotFound     = "File not found"
	msgSaveFailed       = "Internal server error during save"
	msgListFailed       = "Failed to fetch entries"
	msgGetFailed        = "Failed to get entry"
	msgLoadFailed       = "Failed to load file"
	msgUpdateFailed     = "Failed to update entry"
	msgBlobDeleteFailed = "Failed to delete blob"
	msgDeleteFailed     = "Failed to delete entry"
	msgPreviewFailed    = "Failed to render preview"
)

// EntryRepository is the relational metadata store.
type EntryRepository interface {
	Insert(ctx context.Context, blobID, blobLabel, title string, tags []string) (*entry.Entry, error)
	List(ctx context.Context) ([]entry.Entry, error)
	GetByID(ctx context.Context, id int64) (*entry.Entry, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	Delete(ctx context.Context, id int64) error
}

// BlobStore is the remote content store.
type BlobStore interface {
	Upload(ctx context.Context, label string, data []byte) (blob.Object, error)
	Download(ctx context.Context, id string) ([]byte, error)
	Update(ctx context.Context, id string, data []byte, label string) (blob.Object, error)
	Delete(ctx context.Context, id string) error
}

// Options tunes a Service. Zero values fall back to package defaults.
type Options struct {
	DefaultTags     []string
	MaxContentBytes int
	Logger          *slog.Logger
}

// Service coordinates the metadata repository and the blob store.
// Each operation calls them in a fixed order and never compensates on failure.
type Service struct {
	entries         EntryRepository
	blobs           BlobStore
	log             *slog.Logger
	defaultTags     []string
	maxContentBytes int
}

// NewService creates a Service.
func NewService(entries EntryRepository, blobs BlobStore, opts Options) *Service {
	s := &Service{
		entries:         entries,
		blobs:           blobs,
		log:             opts.Logger,
		defaultTags:     opts.DefaultTags,
		maxContentBytes: opts.MaxContentBytes,
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if len(s.defaultTags) == 0 {
		s.defaultTags = entry.DefaultTags
	}
	if s.maxContentBytes == 0 {
		s.maxContentBytes = entry.DefaultMaxContentBytes
	}
	return s
}

// MaxContentBytes reports the largest entry body the service accepts.
// Zero or less means no limit.
func (s *Service) MaxContentBytes() int { return s.maxContentBytes }

// WriteOutput is returned by Save and Update.
// DriveID and WebViewLink repeat BlobID and ViewLink for older clients.
type WriteOutput struct {
	Success     bool   `json:"success"`
	ID          int64  `json:"id"`
	BlobID      string `json:"blobId"`
	DriveID     string `json:"driveId"`
	ViewLink    string `json:"viewLink"`
	WebViewLink string `json:"webViewLink"`
	Title       string `json:"title"`
}

func newWriteOutput(id int64, blobID, viewLink, title string) *WriteOutput {
	return &WriteOutput{
		Success:     true,
		ID:          id,
		BlobID:      blobID,
		DriveID:     blobID,
		ViewLink:    viewLink,
		WebViewLink: viewLink,
		Title:       title,
	}
}

// ParseID parses a path or query identifier. Only positive integers are valid.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidation(msgInvalidID)
	}
	return id, nil
}

// validateContent maps entry.CheckContent failures to VALIDATION errors.
func validateContent(text string, maxBytes int, msg string) error {
	switch err := entry.CheckContent(text, maxBytes); err {
	case nil:
		return nil
	case entry.ErrContentTooLarge:
		return errors.NewValidation(fmt.Sprintf("Content exceeds %d bytes", maxBytes))
	default:
		return errors.NewValidation(msg)
	}
}

// storeErr keeps NOT_FOUND from the repository and relabels anything else.
func storeErr(err error, msg string) error {
	if errors.Is(err, errors.KindNotFound) {
		return err
	}
	return errors.NewStoreUnavailable(msg, err)
}

// blobErr maps blob.ErrNotFound to NOT_FOUND and anything else to REMOTE_BLOB.
func blobErr(err error, msg string) error {
	if stderrors.Is(err, blob.ErrNotFound) {
		return errors.New(errors.KindNotFound, msgFileNotFound, err)
	}
	return errors.NewRemoteBlob(msg, err)
}
