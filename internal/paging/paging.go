package paging

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// cursorPrefix versions the cursor payload so the encoding can change later.
const cursorPrefix = "cursor:v1:"

var (
	// ErrInvalidCursor is returned when an after cursor cannot be decoded.
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidFirst is returned when first is negative.
	ErrInvalidFirst = errors.New("first must not be negative")
)

// Args are the forward pagination arguments. Nil means "not provided".
type Args struct {
	First *int
	After *string
}

// Edge pairs a node with the cursor of its position.
type Edge[T any] struct {
	Cursor string
	Node   T
}

// PageInfo describes where a page sits in the full ordering.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// Page is one slice of an ordered sequence.
type Page[T any] struct {
	Edges    []Edge[T]
	PageInfo PageInfo
}

// Nodes returns the page's nodes without their cursors.
func (p Page[T]) Nodes() []T {
	nodes := make([]T, len(p.Edges))
	for i, e := range p.Edges {
		nodes[i] = e.Node
	}
	return nodes
}

// Paginate returns the page of items selected by args.
//
// Items after the After position are returned, bounded by First. An After
// cursor at or beyond the last item yields an empty page, as does First == 0.
// With no arguments the whole sequence comes back as one page.
func Paginate[T any](items []T, args Args) (Page[T], error) {
	start := 0
	if args.After != nil {
		offset, err := DecodeCursor(*args.After)
		if err != nil {
			return Page[T]{}, err
		}
		start = len(items)
		if offset < len(items) {
			start = offset + 1
		}
	}

	end := len(items)
	if args.First != nil {
		if *args.First < 0 {
			return Page[T]{}, ErrInvalidFirst
		}
		if *args.First < end-start {
			end = start + *args.First
		}
	}

	edges := make([]Edge[T], 0, end-start)
	for i := start; i < end; i++ {
		edges = append(edges, Edge[T]{Cursor: EncodeCursor(i), Node: items[i]})
	}

	info := PageInfo{
		HasNextPage:     end < len(items),
		HasPreviousPage: start > 0,
	}
	if len(edges) > 0 {
		info.StartCursor = edges[0].Cursor
		info.EndCursor = edges[len(edges)-1].Cursor
	}

	return Page[T]{Edges: edges, PageInfo: info}, nil
}

// EncodeCursor returns the opaque cursor for a zero-based offset.
func EncodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor returns the offset encoded in cursor.
func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	digits, ok := strings.CutPrefix(string(raw), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	offset, err := strconv.Atoi(digits)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return offset, nil
}
