package pagination

import (
	"context"
	"slices"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// Source is the storage side of a paginated read.
type Source[K repositories.Key[K], T repositories.EntityWithVersion[K]] interface {
	Query(ctx context.Context, q repositories.RangeQuery[K]) ([]T, error)
	QueryBatch(ctx context.Context, qs []repositories.RangeQuery[K]) ([][]T, error)
}

// Cursors converts keys to and from opaque cursor strings.
type Cursors[K any] interface {
	Encode(K) string
	Decode(string) (K, bool)
}

// Paginate reads one page of the rows matching where.
func Paginate[K repositories.Key[K], T repositories.EntityWithVersion[K]](
	ctx context.Context,
	src Source[K, T],
	cursors Cursors[K],
	req Request,
	where ...repositories.Eq,
) (*Page[T], error) {
	q, err := rangeQuery(cursors, req, where)
	if err != nil {
		return nil, err
	}
	rows, err := src.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return assemble(cursors, req, rows), nil
}

// PaginateBatch reads the same window from several filtered views in a
// single storage round trip. Pages are returned in the order of wheres.
func PaginateBatch[K repositories.Key[K], T repositories.EntityWithVersion[K]](
	ctx context.Context,
	src Source[K, T],
	cursors Cursors[K],
	req Request,
	wheres [][]repositories.Eq,
) ([]*Page[T], error) {
	qs := make([]repositories.RangeQuery[K], len(wheres))
	for i, where := range wheres {
		q, err := rangeQuery(cursors, req, where)
		if err != nil {
			return nil, err
		}
		qs[i] = q
	}
	results, err := src.QueryBatch(ctx, qs)
	if err != nil {
		return nil, err
	}
	pages := make([]*Page[T], len(wheres))
	for i := range wheres {
		pages[i] = assemble(cursors, req, results[i])
	}
	return pages, nil
}

func rangeQuery[K any](cursors Cursors[K], req Request, where []repositories.Eq) (repositories.RangeQuery[K], error) {
	q := repositories.RangeQuery[K]{
		Where:      where,
		Limit:      req.Limit + 1,
		Descending: req.Backward,
	}
	if req.After != "" {
		k, ok := cursors.Decode(req.After)
		if !ok {
			return q, utils.NewValidationError("after", "malformed cursor")
		}
		q.After = &k
	}
	if req.Before != "" {
		k, ok := cursors.Decode(req.Before)
		if !ok {
			return q, utils.NewValidationError("before", "malformed cursor")
		}
		q.Before = &k
	}
	return q, nil
}

// assemble trims the extra row fetched to detect more data and puts the
// page back in ascending order.
func assemble[K any, T repositories.EntityWithVersion[K]](cursors Cursors[K], req Request, rows []T) *Page[T] {
	more := len(rows) > req.Limit
	if more {
		rows = rows[:req.Limit]
	}
	values := make([]T, len(rows))
	copy(values, rows)
	if req.Backward {
		slices.Reverse(values)
	}

	page := &Page[T]{Values: values}
	if req.Backward {
		page.HasPreviousPage = more
	} else {
		page.HasNextPage = more
	}
	if len(values) > 0 {
		start := cursors.Encode(values[0].NaturalKey())
		end := cursors.Encode(values[len(values)-1].NaturalKey())
		page.StartCursor = &start
		page.EndCursor = &end
	}
	return page
}
