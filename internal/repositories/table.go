package repositories

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
)

// Table describes how one entity maps onto its table. Concrete
// repositories build one and hand it to NewBaseRepo.
type Table[K Key[K], T EntityWithVersion[K]] struct {
	Name       string
	KeyColumns []string
	// InsertColumns are written once, on create.
	InsertColumns []string
	// MutableColumns are written on create and by every update.
	MutableColumns []string
	// Filterable lists the columns RangeQuery.Where may reference.
	Filterable []string
	// Columns is the select list; Scan reads it in this order.
	Columns []string

	KeyArgs     func(K) []any
	InsertArgs  func(T) ([]any, error)
	MutableArgs func(T) ([]any, error)
	Scan        func(pgx.Row) (T, error)
}

type statements struct {
	selectAll string
	keyTuple  string
	keyOrder  [2]string // ascending, descending
	exists    string
	insert    string
	update    string
}

func (t *Table[K, T]) statements() statements {
	var s statements
	s.selectAll = fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.Columns, ", "), t.Name)
	s.keyTuple = "(" + strings.Join(t.KeyColumns, ", ") + ")"

	asc := make([]string, len(t.KeyColumns))
	desc := make([]string, len(t.KeyColumns))
	for i, c := range t.KeyColumns {
		asc[i] = c + " ASC"
		desc[i] = c + " DESC"
	}
	s.keyOrder = [2]string{strings.Join(asc, ", "), strings.Join(desc, ", ")}

	nKeys := len(t.KeyColumns)
	s.exists = fmt.Sprintf("SELECT 1 FROM %s WHERE %s = %s", t.Name, s.keyTuple, placeholders(1, nKeys))

	insertCols := append(append(append([]string{}, t.KeyColumns...), t.InsertColumns...), t.MutableColumns...)
	s.insert = fmt.Sprintf(
		"INSERT INTO %s (%s, version, created_at, updated_at) VALUES %s RETURNING created_at",
		t.Name,
		strings.Join(insertCols, ", "),
		strings.TrimSuffix(placeholders(1, len(insertCols)), ")")+", 1, NOW(), NOW())",
	)

	sets := make([]string, len(t.MutableColumns))
	for i, c := range t.MutableColumns {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	sets = append(sets, "version = version + 1", "updated_at = NOW()")
	nMut := len(t.MutableColumns)
	s.update = fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = %s AND version = $%d RETURNING updated_at",
		t.Name,
		strings.Join(sets, ", "),
		s.keyTuple,
		placeholders(nMut+1, nKeys),
		nMut+nKeys+1,
	)
	return s
}

// placeholders renders ($from, ..., $from+n-1).
func placeholders(from, n int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", from+i)
	}
	b.WriteByte(')')
	return b.String()
}
