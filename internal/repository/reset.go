package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Reset empties every camp table in one transaction, children first.
func Reset(ctx context.Context, db *sqlx.DB) error {
	return inTx(ctx, db, "reset tables", func(tx *sqlx.Tx) error {
		for _, table := range []string{"signups", "campers", "activities"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
}
