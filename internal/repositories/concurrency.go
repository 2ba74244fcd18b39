package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

/*
Key:

* `comparable`  → usable as a map key by loaders and GetByIDs
* Compare       → the order storage returns rows in
*/
type Key[K any] interface {
	comparable
	Compare(K) int
}

// EntityWithVersion is a record addressed by its natural key and
// guarded by an optimistic version counter.
type EntityWithVersion[K any] interface {
	NaturalKey() K
	GetVersion() int64
	SetVersion(int64)
}

type timestamped interface {
	SetCreated(at time.Time)
	SetUpdated(at time.Time)
}

// VersionedRepository is the storage protocol every entity implements.
type VersionedRepository[K Key[K], T EntityWithVersion[K]] interface {
	// Create inserts e with version 1. It fails with ErrAlreadyExists,
	// without touching the stored row, when the key is taken.
	Create(ctx context.Context, e T) error
	// Update writes e if the stored version still equals e's version,
	// then bumps both. Otherwise it fails with ErrConflict.
	Update(ctx context.Context, e T) error
	// GetByIDs omits keys that have no row.
	GetByIDs(ctx context.Context, keys []K) (map[K]T, error)
	Query(ctx context.Context, q RangeQuery[K]) ([]T, error)
	QueryBatch(ctx context.Context, qs []RangeQuery[K]) ([][]T, error)
}

/*
WithRetry runs a read‑mutate‑update loop with optimistic locking.
*/
func WithRetry[K Key[K], T EntityWithVersion[K]](
	ctx context.Context,
	repo VersionedRepository[K, T],
	maxRetries int,
	key K,
	mutate func(T) error,
) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		found, err := repo.GetByIDs(ctx, []K{key})
		if err != nil {
			return err
		}
		current, ok := found[key]
		if !ok {
			return fmt.Errorf("%v: %w", key, utils.ErrNotFound)
		}

		if err := mutate(current); err != nil {
			return err
		}

		err = repo.Update(ctx, current)
		if !errors.Is(err, utils.ErrConflict) {
			return err
		}
		// someone else updated first – retry
	}
	return fmt.Errorf("too much contention updating %v: %w", key, utils.ErrConflict)
}

// UpsertWithRetry is WithRetry that creates the row when it is absent.
// Losing a create race counts as an attempt, like losing an update.
func UpsertWithRetry[K Key[K], T EntityWithVersion[K]](
	ctx context.Context,
	repo VersionedRepository[K, T],
	maxRetries int,
	key K,
	create func() (T, error),
	mutate func(T) error,
) error {
	for attempt := 0; attempt < maxRetries; attempt++ {
		found, err := repo.GetByIDs(ctx, []K{key})
		if err != nil {
			return err
		}

		current, ok := found[key]
		if !ok {
			fresh, err := create()
			if err != nil {
				return err
			}
			err = repo.Create(ctx, fresh)
			if !errors.Is(err, utils.ErrAlreadyExists) {
				return err
			}
			continue
		}

		if err := mutate(current); err != nil {
			return err
		}
		err = repo.Update(ctx, current)
		if !errors.Is(err, utils.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("too much contention upserting %v: %w", key, utils.ErrConflict)
}
