package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

const pgUniqueViolation = "23505"

/*
BaseVersionedRepo implements VersionedRepository for any entity whose
table is described by a Table. Concrete repositories embed it and add
their entity-specific reads.
*/
type BaseVersionedRepo[K Key[K], T EntityWithVersion[K]] struct {
	db         DB
	table      Table[K, T]
	stmts      statements
	filterable map[string]bool
}

// NewBaseRepo is called by concrete repositories.
func NewBaseRepo[K Key[K], T EntityWithVersion[K]](db DB, table Table[K, T]) *BaseVersionedRepo[K, T] {
	filterable := make(map[string]bool, len(table.Filterable))
	for _, c := range table.Filterable {
		filterable[c] = true
	}
	return &BaseVersionedRepo[K, T]{
		db:         db,
		table:      table,
		stmts:      table.statements(),
		filterable: filterable,
	}
}

/* ---------- writes ---------- */

func (b *BaseVersionedRepo[K, T]) Create(ctx context.Context, e T) error {
	defer b.observe("create", time.Now())

	key := e.NaturalKey()
	keyArgs := b.table.KeyArgs(key)
	insertArgs, err := b.table.InsertArgs(e)
	if err != nil {
		return err
	}
	mutableArgs, err := b.table.MutableArgs(e)
	if err != nil {
		return err
	}
	args := append(append(append([]any{}, keyArgs...), insertArgs...), mutableArgs...)

	var createdAt time.Time
	err = b.inTx(ctx, func(tx pgx.Tx) error {
		var one int
		err := tx.QueryRow(ctx, b.stmts.exists, keyArgs...).Scan(&one)
		switch {
		case err == nil:
			return fmt.Errorf("%s %v: %w", b.table.Name, key, utils.ErrAlreadyExists)
		case !errors.Is(err, pgx.ErrNoRows):
			return err
		}
		return tx.QueryRow(ctx, b.stmts.insert, args...).Scan(&createdAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			err = fmt.Errorf("%s %v: %w", b.table.Name, key, utils.ErrAlreadyExists)
		}
		if errors.Is(err, utils.ErrAlreadyExists) {
			duplicateCreates.WithLabelValues(b.table.Name).Inc()
		}
		return utils.Upstream(b.op("create"), err)
	}

	e.SetVersion(1)
	if ts, ok := any(e).(timestamped); ok {
		ts.SetCreated(createdAt)
	}
	return nil
}

func (b *BaseVersionedRepo[K, T]) Update(ctx context.Context, e T) error {
	defer b.observe("update", time.Now())

	key := e.NaturalKey()
	mutableArgs, err := b.table.MutableArgs(e)
	if err != nil {
		return err
	}
	args := append(append([]any{}, mutableArgs...), b.table.KeyArgs(key)...)
	args = append(args, e.GetVersion())

	var updatedAt time.Time
	err = b.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, b.stmts.update, args...).Scan(&updatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s %v at version %d: %w", b.table.Name, key, e.GetVersion(), utils.ErrConflict)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, utils.ErrConflict) {
			versionConflicts.WithLabelValues(b.table.Name).Inc()
		}
		return utils.Upstream(b.op("update"), err)
	}

	e.SetVersion(e.GetVersion() + 1)
	if ts, ok := any(e).(timestamped); ok {
		ts.SetUpdated(updatedAt)
	}
	return nil
}

/* ---------- reads ---------- */

func (b *BaseVersionedRepo[K, T]) GetByIDs(ctx context.Context, keys []K) (map[K]T, error) {
	defer b.observe("get_by_ids", time.Now())

	out := make(map[K]T, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	seen := make(map[K]struct{}, len(keys))
	tuples := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)*len(b.table.KeyColumns))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kArgs := b.table.KeyArgs(k)
		tuples = append(tuples, placeholders(len(args)+1, len(kArgs)))
		args = append(args, kArgs...)
	}

	sql := fmt.Sprintf("%s WHERE %s IN (%s)", b.stmts.selectAll, b.stmts.keyTuple, strings.Join(tuples, ", "))
	rows, err := b.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, utils.Upstream(b.op("get_by_ids"), err)
	}
	values, err := b.collect(rows)
	if err != nil {
		return nil, utils.Upstream(b.op("get_by_ids"), err)
	}
	for _, v := range values {
		out[v.NaturalKey()] = v
	}
	return out, nil
}

func (b *BaseVersionedRepo[K, T]) Query(ctx context.Context, q RangeQuery[K]) ([]T, error) {
	defer b.observe("query", time.Now())

	sql, args, err := b.rangeSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, utils.Upstream(b.op("query"), err)
	}
	values, err := b.collect(rows)
	if err != nil {
		return nil, utils.Upstream(b.op("query"), err)
	}
	return values, nil
}

// QueryBatch sends every range read in one pipelined round trip.
func (b *BaseVersionedRepo[K, T]) QueryBatch(ctx context.Context, qs []RangeQuery[K]) ([][]T, error) {
	defer b.observe("query_batch", time.Now())

	out := make([][]T, len(qs))
	if len(qs) == 0 {
		return out, nil
	}

	batch := &pgx.Batch{}
	for _, q := range qs {
		sql, args, err := b.rangeSQL(q)
		if err != nil {
			return nil, err
		}
		batch.Queue(sql, args...)
	}

	br := b.db.SendBatch(ctx, batch)
	for i := range qs {
		rows, err := br.Query()
		if err != nil {
			_ = br.Close()
			return nil, utils.Upstream(b.op("query_batch"), err)
		}
		if out[i], err = b.collect(rows); err != nil {
			_ = br.Close()
			return nil, utils.Upstream(b.op("query_batch"), err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, utils.Upstream(b.op("query_batch"), err)
	}
	return out, nil
}

/* ---------- helpers ---------- */

func (b *BaseVersionedRepo[K, T]) rangeSQL(q RangeQuery[K]) (string, []any, error) {
	if q.Limit <= 0 {
		return "", nil, utils.NewValidationError("limit", "must be positive")
	}

	var conds []string
	var args []any
	for _, eq := range q.Where {
		if !b.filterable[eq.Column] {
			return "", nil, fmt.Errorf("%s: column %q is not filterable", b.table.Name, eq.Column)
		}
		args = append(args, eq.Value)
		conds = append(conds, fmt.Sprintf("%s = $%d", eq.Column, len(args)))
	}
	if q.After != nil {
		kArgs := b.table.KeyArgs(*q.After)
		conds = append(conds, fmt.Sprintf("%s > %s", b.stmts.keyTuple, placeholders(len(args)+1, len(kArgs))))
		args = append(args, kArgs...)
	}
	if q.Before != nil {
		kArgs := b.table.KeyArgs(*q.Before)
		conds = append(conds, fmt.Sprintf("%s < %s", b.stmts.keyTuple, placeholders(len(args)+1, len(kArgs))))
		args = append(args, kArgs...)
	}

	var sb strings.Builder
	sb.WriteString(b.stmts.selectAll)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	if q.Descending {
		sb.WriteString(b.stmts.keyOrder[1])
	} else {
		sb.WriteString(b.stmts.keyOrder[0])
	}
	args = append(args, q.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	return sb.String(), args, nil
}

func (b *BaseVersionedRepo[K, T]) collect(rows pgx.Rows) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := b.table.Scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// inTx commits when fn succeeds and rolls back otherwise.
func (b *BaseVersionedRepo[K, T]) inTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := b.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(tx)
}

func (b *BaseVersionedRepo[K, T]) op(name string) string {
	return b.table.Name + "." + name
}

func (b *BaseVersionedRepo[K, T]) observe(op string, start time.Time) {
	queryDuration.WithLabelValues(b.table.Name, op).Observe(time.Since(start).Seconds())
}
