package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// inTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise; a failed commit is reported as
// ErrStorage.
func inTx(ctx context.Context, db *sqlx.DB, op string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(err, op+": begin")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return classify(err, op)
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrapf(ErrStorage, "%s: commit: %v", op, err)
	}
	return nil
}
