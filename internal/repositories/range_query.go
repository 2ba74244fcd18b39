package repositories

// Eq restricts a range read to rows whose column equals Value.
type Eq struct {
	Column string
	Value  any
}

// RangeQuery is a bounded, ordered read over a table's natural key.
// After and Before are strict bounds; both may be set. Rows come back
// ordered by the key columns, descending when Descending is set.
type RangeQuery[K any] struct {
	Where      []Eq
	After      *K
	Before     *K
	Limit      int
	Descending bool
}
