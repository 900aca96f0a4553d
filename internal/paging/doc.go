// Package paging slices an ordered result set into cursor-addressed pages.
//
// Callers hand Paginate a slice that is already in its final, deterministic
// order. Each returned edge carries an opaque cursor encoding its position in
// that full ordering, so walking pages with the previous EndCursor as the
// next After visits every element exactly once.
//
// Cursors are stable for unchanged data but are not row identifiers and must
// not be parsed by clients.
package paging
