package pagination

import (
	"encoding/base64"
	"strings"
	"time"
)

const (
	// DefaultLimit applies when the caller does not specify a page size.
	DefaultLimit = 20
	// MaxLimit caps the page size for all list endpoints.
	MaxLimit = 100
)

// Params carry the caller-provided paging inputs.
type Params struct {
	Limit  int
	Cursor string
}

// Page wraps a result slice with the cursor for the next page.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// EncodeCursor builds an opaque cursor from a row timestamp and id.
func EncodeCursor(ts time.Time, id string) string {
	raw := ts.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor reverses EncodeCursor. An empty cursor yields zero values.
func DecodeCursor(cursor string) (time.Time, string, bool) {
	if cursor == "" {
		return time.Time{}, "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", false
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", false
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", false
	}
	return ts, parts[1], true
}

// Clamp normalizes the limit into the allowed window.
func Clamp(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
