package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/jmoiron/sqlx"
)

// errNoRows is returned for lookups, updates and deletes that match nothing,
// whatever the backing store.
var errNoRows = sql.ErrNoRows

// streamRows runs query and yields one scanned T per row. Rows are closed when
// the consumer stops early or the result set is exhausted.
func streamRows[T any](ctx context.Context, db *sqlx.DB, label, query string, args ...interface{}) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := db.QueryxContext(ctx, query, args...)
		if err != nil {
			yield(zero, fmt.Errorf("list %s: %w", label, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var item T
			if err := rows.StructScan(&item); err != nil {
				yield(zero, fmt.Errorf("scan %s: %w", label, err))
				return
			}
			if !yield(item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, fmt.Errorf("iterate %s: %w", label, err))
		}
	}
}

// requireAffected maps an update or delete that touched nothing to sql.ErrNoRows.
func requireAffected(res interface{ RowsAffected() (int64, error) }, label string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", label, err)
	}
	if n == 0 {
		return errNoRows
	}
	return nil
}
