package paging

import (
	"encoding/base64"
	"errors"
	"slices"
	"testing"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func letters() []string { return []string{"a", "b", "c", "d", "e", "f", "g", "h"} }

func nodes(p Page[string]) []string { return p.Nodes() }

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		args         Args
		want         []string
		wantNext     bool
		wantPrevious bool
	}{
		{
			name: "no arguments returns everything",
			args: Args{},
			want: letters(),
		},
		{
			name:     "first bounds the page",
			args:     Args{First: intPtr(2)},
			want:     []string{"a", "b"},
			wantNext: true,
		},
		{
			name:         "after skips through the cursor position",
			args:         Args{First: intPtr(3), After: strPtr(EncodeCursor(1))},
			want:         []string{"c", "d", "e"},
			wantNext:     true,
			wantPrevious: true,
		},
		{
			name:         "after without first returns the rest",
			args:         Args{After: strPtr(EncodeCursor(5))},
			want:         []string{"g", "h"},
			wantPrevious: true,
		},
		{
			name:     "first zero is empty",
			args:     Args{First: intPtr(0)},
			want:     []string{},
			wantNext: true,
		},
		{
			name:         "after last element is empty",
			args:         Args{After: strPtr(EncodeCursor(7))},
			want:         []string{},
			wantPrevious: true,
		},
		{
			name:         "after past the end is empty",
			args:         Args{First: intPtr(2), After: strPtr(EncodeCursor(40))},
			want:         []string{},
			wantPrevious: true,
		},
		{
			name: "first larger than remaining returns what is left",
			args: Args{First: intPtr(100)},
			want: letters(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Paginate(letters(), tt.args)
			if err != nil {
				t.Fatalf("Paginate() error = %v", err)
			}
			if got := nodes(page); !slices.Equal(got, tt.want) {
				t.Errorf("nodes = %v, want %v", got, tt.want)
			}
			if page.PageInfo.HasNextPage != tt.wantNext {
				t.Errorf("HasNextPage = %v, want %v", page.PageInfo.HasNextPage, tt.wantNext)
			}
			if page.PageInfo.HasPreviousPage != tt.wantPrevious {
				t.Errorf("HasPreviousPage = %v, want %v", page.PageInfo.HasPreviousPage, tt.wantPrevious)
			}
		})
	}
}

func TestPaginate_EmptyInput(t *testing.T) {
	page, err := Paginate([]string{}, Args{First: intPtr(5)})
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	if len(page.Edges) != 0 {
		t.Errorf("edges = %d, want 0", len(page.Edges))
	}
	if page.PageInfo.StartCursor != "" || page.PageInfo.EndCursor != "" {
		t.Errorf("cursors = %+v, want empty", page.PageInfo)
	}
	if page.Edges == nil {
		t.Error("Edges should be an empty slice, not nil")
	}
}

func TestPaginate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args Args
		want error
	}{
		{"negative first", Args{First: intPtr(-1)}, ErrInvalidFirst},
		{"not base64", Args{After: strPtr("!!!")}, ErrInvalidCursor},
		{"wrong prefix", Args{After: strPtr("b3RoZXI6MQ")}, ErrInvalidCursor},
		{"negative offset", Args{After: strPtr(encodeRaw("cursor:v1:-3"))}, ErrInvalidCursor},
		{"non numeric offset", Args{After: strPtr(encodeRaw("cursor:v1:abc"))}, ErrInvalidCursor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Paginate(letters(), tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("Paginate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPaginate_WalkVisitsEveryElementOnce(t *testing.T) {
	items := letters()

	for size := 1; size <= len(items)+1; size++ {
		var seen []string
		var after *string
		for range len(items) + 2 {
			page, err := Paginate(items, Args{First: intPtr(size), After: after})
			if err != nil {
				t.Fatalf("size %d: Paginate() error = %v", size, err)
			}
			seen = append(seen, nodes(page)...)
			if !page.PageInfo.HasNextPage {
				break
			}
			after = strPtr(page.PageInfo.EndCursor)
		}
		if !slices.Equal(seen, items) {
			t.Errorf("size %d: walked %v, want %v", size, seen, items)
		}
	}
}

func TestPaginate_CursorsAreStable(t *testing.T) {
	first, err := Paginate(letters(), Args{})
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}
	second, err := Paginate(letters(), Args{First: intPtr(3), After: strPtr(first.Edges[1].Cursor)})
	if err != nil {
		t.Fatalf("Paginate() error = %v", err)
	}

	for i, e := range second.Edges {
		if e.Cursor != first.Edges[i+2].Cursor {
			t.Errorf("edge %d cursor = %q, want %q", i, e.Cursor, first.Edges[i+2].Cursor)
		}
	}
	if second.PageInfo.StartCursor != first.Edges[2].Cursor {
		t.Errorf("StartCursor = %q, want %q", second.PageInfo.StartCursor, first.Edges[2].Cursor)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 1, 9, 10, 12345} {
		cursor := EncodeCursor(offset)
		got, err := DecodeCursor(cursor)
		if err != nil {
			t.Fatalf("DecodeCursor(%q) error = %v", cursor, err)
		}
		if got != offset {
			t.Errorf("DecodeCursor(EncodeCursor(%d)) = %d", offset, got)
		}
	}
}

func encodeRaw(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
