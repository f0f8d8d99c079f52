// Package pagination implements keyset cursors for transcript listings.
// Cursors encode the last item's timeline position so pages stay stable
// while the pipeline appends rows.
package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

// Cursor represents a decoded pagination cursor
type Cursor struct {
	LastID   string
	Position float64 // start offset in seconds of the last item
}

// PageResult represents a paginated result set
type PageResult[T any] struct {
	Items   []T    `json:"items"`
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"has_more"`
}

var (
	ErrInvalidCursor = errors.New("invalid cursor format")
)

// EncodeCursor creates a base64-encoded cursor from the last item ID and
// its timeline position
func EncodeCursor(lastID string, position float64) string {
	if lastID == "" {
		return ""
	}
	raw := lastID + "|" + strconv.FormatFloat(position, 'f', -1, 64)
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor decodes a base64-encoded cursor
func DecodeCursor(cursor string) (*Cursor, error) {
	if cursor == "" {
		return nil, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, ErrInvalidCursor
	}

	position, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	return &Cursor{
		LastID:   parts[0],
		Position: position,
	}, nil
}

// CreateNextCursor creates a cursor for the next page based on the last item
// Returns empty string if there are no more items
func CreateNextCursor[T any](items []T, limit int, getID func(T) string, getPosition func(T) float64) string {
	if len(items) == 0 || len(items) < limit {
		return ""
	}
	lastItem := items[len(items)-1]
	return EncodeCursor(getID(lastItem), getPosition(lastItem))
}
