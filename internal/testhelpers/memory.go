package testhelpers

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/repositories"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type stamped interface {
	SetCreated(time.Time)
	SetUpdated(time.Time)
}

// MemoryRepository is an in-memory VersionedRepository. Stored values
// are copies, so callers cannot mutate them behind its back.
type MemoryRepository[K repositories.Key[K], T repositories.EntityWithVersion[K]] struct {
	mu     sync.Mutex
	rows   map[K]T
	clone  func(T) T
	column func(T, string) any

	// Err, when set, is returned by every call.
	Err error

	Creates         atomic.Int64
	Updates         atomic.Int64
	GetByIDsCalls   atomic.Int64
	QueryCalls      atomic.Int64
	QueryBatchCalls atomic.Int64
}

// NewMemoryRepository needs clone to copy a value and column to read a
// filterable column by name.
func NewMemoryRepository[K repositories.Key[K], T repositories.EntityWithVersion[K]](
	clone func(T) T,
	column func(T, string) any,
) *MemoryRepository[K, T] {
	return &MemoryRepository[K, T]{rows: make(map[K]T), clone: clone, column: column}
}

func (m *MemoryRepository[K, T]) Create(_ context.Context, e T) error {
	m.Creates.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	key := e.NaturalKey()
	if _, ok := m.rows[key]; ok {
		return fmt.Errorf("%v: %w", key, utils.ErrAlreadyExists)
	}
	now := time.Now()
	e.SetVersion(1)
	if s, ok := any(e).(stamped); ok {
		s.SetCreated(now)
	}
	m.rows[key] = m.clone(e)
	return nil
}

func (m *MemoryRepository[K, T]) Update(_ context.Context, e T) error {
	m.Updates.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	key := e.NaturalKey()
	cur, ok := m.rows[key]
	if !ok || cur.GetVersion() != e.GetVersion() {
		return fmt.Errorf("%v at version %d: %w", key, e.GetVersion(), utils.ErrConflict)
	}
	e.SetVersion(e.GetVersion() + 1)
	if s, ok := any(e).(stamped); ok {
		s.SetUpdated(time.Now())
	}
	m.rows[key] = m.clone(e)
	return nil
}

func (m *MemoryRepository[K, T]) GetByIDs(_ context.Context, keys []K) (map[K]T, error) {
	m.GetByIDsCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make(map[K]T, len(keys))
	for _, k := range keys {
		if v, ok := m.rows[k]; ok {
			out[k] = m.clone(v)
		}
	}
	return out, nil
}

func (m *MemoryRepository[K, T]) Query(_ context.Context, q repositories.RangeQuery[K]) ([]T, error) {
	m.QueryCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.rangeLocked(q)
}

func (m *MemoryRepository[K, T]) QueryBatch(_ context.Context, qs []repositories.RangeQuery[K]) ([][]T, error) {
	m.QueryBatchCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	out := make([][]T, len(qs))
	for i, q := range qs {
		rows, err := m.rangeLocked(q)
		if err != nil {
			return nil, err
		}
		out[i] = rows
	}
	return out, nil
}

// Put stores e as-is, bypassing version checks. Use it to seed state.
func (m *MemoryRepository[K, T]) Put(e T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.GetVersion() == 0 {
		e.SetVersion(1)
	}
	m.rows[e.NaturalKey()] = m.clone(e)
}

// Get returns a copy of the stored value.
func (m *MemoryRepository[K, T]) Get(key K) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[key]
	if ok {
		v = m.clone(v)
	}
	return v, ok
}

func (m *MemoryRepository[K, T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// All returns every stored value in key order.
func (m *MemoryRepository[K, T]) All() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedLocked(false)
}

func (m *MemoryRepository[K, T]) rangeLocked(q repositories.RangeQuery[K]) ([]T, error) {
	if q.Limit <= 0 {
		return nil, utils.NewValidationError("limit", "must be positive")
	}
	var out []T
	for _, v := range m.sortedLocked(q.Descending) {
		if !m.matches(v, q) {
			continue
		}
		out = append(out, v)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryRepository[K, T]) matches(v T, q repositories.RangeQuery[K]) bool {
	for _, eq := range q.Where {
		if m.column(v, eq.Column) != eq.Value {
			return false
		}
	}
	k := v.NaturalKey()
	if q.After != nil && k.Compare(*q.After) <= 0 {
		return false
	}
	if q.Before != nil && k.Compare(*q.Before) >= 0 {
		return false
	}
	return true
}

func (m *MemoryRepository[K, T]) sortedLocked(desc bool) []T {
	out := make([]T, 0, len(m.rows))
	for _, v := range m.rows {
		out = append(out, m.clone(v))
	}
	slices.SortFunc(out, func(a, b T) int {
		c := a.NaturalKey().Compare(b.NaturalKey())
		if desc {
			return -c
		}
		return c
	})
	return out
}
