package dataloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

// BatchFunc fetches the values for keys that share params. It should
// return an entry for every key; returning an error fails the whole
// batch.
type BatchFunc[P comparable, K comparable, V any] func(ctx context.Context, params P, keys []K) (map[K]Result[V], error)

type entry[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newEntry[V any]() *entry[V] {
	return &entry[V]{done: make(chan struct{})}
}

func (e *entry[V]) resolve(v V, err error) {
	e.value, e.err = v, err
	close(e.done)
}

type pending[K comparable, V any] struct {
	key   K
	entry *entry[V]
}

// group is the queue and cache of one params value.
type group[K comparable, V any] struct {
	cache     map[K]*entry[V]
	pending   []pending[K, V]
	scheduled bool
	inflight  bool
	timer     *time.Timer
}

// Loader batches and caches lookups of V by K, grouped by P.
type Loader[P comparable, K comparable, V any] struct {
	name  string
	scope *Scope
	fetch BatchFunc[P, K, V]
	opts  Options

	mu     sync.Mutex
	closed bool
	groups map[P]*group[K, V]
}

// New creates a loader whose caches live as long as scope. name labels
// metrics and errors.
func New[P comparable, K comparable, V any](scope *Scope, name string, fetch BatchFunc[P, K, V], opts Options) *Loader[P, K, V] {
	l := &Loader[P, K, V]{
		name:   name,
		scope:  scope,
		fetch:  fetch,
		opts:   opts.normalized(),
		groups: make(map[P]*group[K, V]),
	}
	if !scope.register(l.close) {
		l.closed = true
	}
	return l
}

// Load returns the value for key, fetching it with the next batch for
// params unless it is already cached. ctx only bounds how long this
// caller waits; the fetch itself runs with the scope's context.
func (l *Loader[P, K, V]) Load(ctx context.Context, params P, key K) (V, error) {
	e, err := l.enqueue(params, key)
	if err != nil {
		var zero V
		return zero, err
	}
	return l.wait(ctx, e)
}

// LoadMany loads every key in one batch where possible. Results are in
// the order of keys.
func (l *Loader[P, K, V]) LoadMany(ctx context.Context, params P, keys []K) []Result[V] {
	entries := make([]*entry[V], len(keys))
	out := make([]Result[V], len(keys))
	for i, k := range keys {
		e, err := l.enqueue(params, k)
		if err != nil {
			out[i].Err = err
			continue
		}
		entries[i] = e
	}
	for i, e := range entries {
		if e == nil {
			continue
		}
		out[i].Value, out[i].Err = l.wait(ctx, e)
	}
	return out
}

// Prime caches value for key unless key is already cached or queued.
func (l *Loader[P, K, V]) Prime(params P, key K, value V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	g := l.groupLocked(params)
	if _, ok := g.cache[key]; ok {
		return
	}
	e := newEntry[V]()
	e.resolve(value, nil)
	g.cache[key] = e
}

// Clear drops key from the cache so the next Load fetches it again.
// Callers already waiting on the key are unaffected.
func (l *Loader[P, K, V]) Clear(params P, key K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if g, ok := l.groups[params]; ok {
		delete(g.cache, key)
	}
}

// ClearFunc drops every cached key for which match reports true, across
// all params.
func (l *Loader[P, K, V]) ClearFunc(match func(params P, key K) bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for params, g := range l.groups {
		for key := range g.cache {
			if match(params, key) {
				delete(g.cache, key)
			}
		}
	}
}

func (l *Loader[P, K, V]) wait(ctx context.Context, e *entry[V]) (V, error) {
	select {
	case <-e.done:
		return e.value, e.err
	default:
	}
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

func (l *Loader[P, K, V]) enqueue(params P, key K) (*entry[V], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrScopeClosed
	}

	g := l.groupLocked(params)
	if e, ok := g.cache[key]; ok {
		cacheHitsTotal.WithLabelValues(l.name).Inc()
		return e, nil
	}

	e := newEntry[V]()
	g.cache[key] = e
	g.pending = append(g.pending, pending[K, V]{key: key, entry: e})
	l.scheduleLocked(params, g)
	return e, nil
}

func (l *Loader[P, K, V]) groupLocked(params P) *group[K, V] {
	g, ok := l.groups[params]
	if !ok {
		g = &group[K, V]{cache: make(map[K]*entry[V])}
		l.groups[params] = g
	}
	return g
}

// scheduleLocked arms the batch window for g. A running fetch
// reschedules on completion instead.
func (l *Loader[P, K, V]) scheduleLocked(params P, g *group[K, V]) {
	if g.inflight {
		return
	}
	full := len(g.pending) >= l.opts.MaxBatch
	switch {
	case !g.scheduled && (full || l.opts.Wait == 0):
		g.scheduled = true
		go l.dispatch(params, g)
	case !g.scheduled:
		g.scheduled = true
		g.timer = time.AfterFunc(l.opts.Wait, func() { l.dispatch(params, g) })
	case full && g.timer != nil && g.timer.Stop():
		g.timer = nil
		go l.dispatch(params, g)
	}
}

func (l *Loader[P, K, V]) dispatch(params P, g *group[K, V]) {
	l.mu.Lock()
	g.scheduled = false
	g.timer = nil
	if l.closed || g.inflight || len(g.pending) == 0 {
		l.mu.Unlock()
		return
	}
	n := min(len(g.pending), l.opts.MaxBatch)
	batch := g.pending[:n:n]
	g.pending = append([]pending[K, V](nil), g.pending[n:]...)
	g.inflight = true
	l.mu.Unlock()

	l.run(params, batch)

	l.mu.Lock()
	g.inflight = false
	if !l.closed && len(g.pending) > 0 && !g.scheduled {
		// These keys already waited out a window behind the fetch.
		g.scheduled = true
		go l.dispatch(params, g)
	}
	l.mu.Unlock()
}

func (l *Loader[P, K, V]) run(params P, batch []pending[K, V]) {
	keys := make([]K, 0, len(batch))
	seen := make(map[K]struct{}, len(batch))
	for _, p := range batch {
		if _, dup := seen[p.key]; dup {
			continue
		}
		seen[p.key] = struct{}{}
		keys = append(keys, p.key)
	}

	start := time.Now()
	results, err := l.call(params, keys)
	batchesTotal.WithLabelValues(l.name).Inc()
	batchKeys.WithLabelValues(l.name).Observe(float64(len(keys)))
	batchDuration.WithLabelValues(l.name).Observe(time.Since(start).Seconds())

	var zero V
	if err != nil {
		batchErrorsTotal.WithLabelValues(l.name).Inc()
		utils.Logger.WithFields(logrus.Fields{
			"loader": l.name,
			"keys":   len(keys),
		}).WithError(err).Warn("batch load failed")

		shared := &BatchError{Loader: l.name, Keys: len(keys), Err: err}
		for _, p := range batch {
			p.entry.resolve(zero, shared)
		}
		return
	}

	for _, p := range batch {
		r, ok := results[p.key]
		if !ok {
			p.entry.resolve(zero, fmt.Errorf("%w: %s %v", ErrMissingKey, l.name, p.key))
			continue
		}
		p.entry.resolve(r.Value, r.Err)
	}
}

func (l *Loader[P, K, V]) call(params P, keys []K) (results map[K]Result[V], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch function panicked: %v", r)
		}
	}()
	return l.fetch(l.scope.ctx, params, keys)
}

func (l *Loader[P, K, V]) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true

	var zero V
	for _, g := range l.groups {
		if g.timer != nil {
			g.timer.Stop()
		}
		for _, p := range g.pending {
			p.entry.resolve(zero, ErrScopeClosed)
		}
		g.pending = nil
	}
	l.groups = nil
}
