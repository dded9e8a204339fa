package entry

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// LabelExt is the extension carried by every blob label; content is always gzip.
const LabelExt = ".gz"

// NewLabel generates a blob label of the form entry-<ulid>.gz.
// Labels sort by creation time and are used only as the remote object name.
func NewLabel() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return "entry-" + strings.ToLower(id.String()) + LabelExt
}
