package entry

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// UntitledTitle is used when the first line of content is blank.
const UntitledTitle = "Untitled"

// headingPrefix matches one leading run of markdown heading markers.
var headingPrefix = regexp.MustCompile(`^#+\s*`)

// ExtractTitle derives a title from the first line of text.
// One leading run of '#' (and the whitespace after it) is removed, then the
// result is trimmed. A blank result becomes "Untitled".
func ExtractTitle(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	title := strings.TrimSpace(headingPrefix.ReplaceAllString(first, ""))
	if title == "" {
		return UntitledTitle
	}
	return title
}

var (
	ErrEmptyContent    = errors.New("content is empty")
	ErrInvalidUTF8     = errors.New("content is not valid UTF-8")
	ErrContentTooLarge = errors.New("content too large")
)

// CheckContent validates an entry body before it is sent to any store.
// maxBytes <= 0 disables the size check.
func CheckContent(text string, maxBytes int) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyContent
	}
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	if maxBytes > 0 && len(text) > maxBytes {
		return ErrContentTooLarge
	}
	return nil
}
