// Package blob stores opaque content bytes in a remote object store.
//
// Every implementation returns a stable external identifier per object and
// reports a missing object by wrapping ErrNotFound.
package blob

import (
	"errors"
	"mime"
	"path"
	"strings"
)

// ErrNotFound is wrapped by every store when the referenced object does not exist.
var ErrNotFound = errors.New("blob not found")

// Object identifies an uploaded blob.
type Object struct {
	// ID is the store-assigned identifier; stable across updates
	ID string

	// ViewLink is a URL a human can open to view the object, when the store has one
	ViewLink string
}

var contentTypes = map[string]string{
	".gz":   "application/gzip",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".json": "application/json",
}

// ContentType returns the MIME type hinted by a label's extension.
func ContentType(label string) string {
	ext := strings.ToLower(path.Ext(label))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
