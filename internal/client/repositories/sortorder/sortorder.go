// Package sortorder holds the SQL shared by the ordered repositories: the
// next-position expression used on insert, the single CASE update used to
// persist a new order, and the timestamp encoding.
package sortorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/dbx"
)

// OrderBy reproduces the last confirmed order of a collection.
const OrderBy = "ORDER BY sort_order ASC, created_at DESC"

// Scope restricts a collection to rows where Column equals Value.
type Scope struct {
	Column string
	Value  any
}

// Next returns a scalar subquery yielding MAX(sort_order)+1 for table, or 1
// for an empty collection. With a scope the subquery takes one argument.
func Next(table string, scope *Scope) string {
	q := "(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM " + table
	if scope != nil {
		q += " WHERE " + scope.Column + " = ?"
	}
	return q + ")"
}

// BuildReorder returns the UPDATE assigning position+1 to each id.
func BuildReorder(table string, ids []int64, now int64, scope *Scope) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(ids)*3+2)

	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET sort_order = CASE id")
	for i, id := range ids {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, id, int64(i+1))
	}
	b.WriteString(" END, updated_at = ? WHERE id IN (")
	args = append(args, now)
	b.WriteString(dbx.Placeholders(len(ids)))
	b.WriteString(")")
	for _, id := range ids {
		args = append(args, id)
	}
	if scope != nil {
		b.WriteString(" AND ")
		b.WriteString(scope.Column)
		b.WriteString(" = ?")
		args = append(args, scope.Value)
	}

	return b.String(), args
}

// Reorder persists ids as the new order of table in one transaction.
// An empty ids is a no-op. Duplicates fail validation. If any id is
// missing (or outside scope) nothing is written and ErrPartialReorder is
// returned.
func Reorder(ctx context.Context, db dbx.TxBeginner, table string, ids []int64, now time.Time, scope *Scope) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: duplicate id %d in reorder", common.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}

	query, args := BuildReorder(table, ids, Encode(now), scope)

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return Wrap("reorder failed", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return Wrap("reorder failed", err)
		}
		if n != int64(len(ids)) {
			return fmt.Errorf("%w: %d of %d rows matched", common.ErrPartialReorder, n, len(ids))
		}
		return nil
	})
	if err != nil && !errors.Is(err, common.ErrPersistence) && !errors.Is(err, common.ErrPartialReorder) {
		return Wrap("reorder failed", err)
	}
	return err
}

// Wrap tags a driver error with ErrPersistence.
func Wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrPersistence, op, err)
}

// Encode stores t as unix nanoseconds.
func Encode(t time.Time) int64 {
	return t.UTC().UnixNano()
}

// Decode is the inverse of Encode.
func Decode(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// DecodeNull returns nil for a NULL column.
func DecodeNull(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := Decode(n.Int64)
	return &t
}
