package pagination

// Page is one window of a connection. Values are always in ascending
// key order. Only the flag for the direction that was queried is
// computed; the other is false.
type Page[T any] struct {
	Values          []T     `json:"values"`
	HasNextPage     bool    `json:"has_next_page"`
	HasPreviousPage bool    `json:"has_previous_page"`
	StartCursor     *string `json:"start_cursor"`
	EndCursor       *string `json:"end_cursor"`
}

// Map converts a page of one value type into another, keeping flags and
// cursors.
func Map[T, U any](p *Page[T], f func(T) U) *Page[U] {
	out := &Page[U]{
		Values:          make([]U, len(p.Values)),
		HasNextPage:     p.HasNextPage,
		HasPreviousPage: p.HasPreviousPage,
		StartCursor:     p.StartCursor,
		EndCursor:       p.EndCursor,
	}
	for i, v := range p.Values {
		out.Values[i] = f(v)
	}
	return out
}
