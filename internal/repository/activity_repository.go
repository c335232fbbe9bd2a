// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for activities. Activities are
// seeded, listed and deleted; deleting one removes its signups first so
// that no signup is ever left pointing at a missing activity.
package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/camp-signup/internal/model"
)

// ActivityRepo encapsulates all database queries related to activities.
type ActivityRepo struct {
	db *sqlx.DB // db is the underlying database connection pool
}

// NewActivityRepo constructs an ActivityRepo with the provided DB handle.
func NewActivityRepo(db *sqlx.DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// ListAll returns every activity ordered by id. The slice is empty, not
// nil, when there are no activities.
func (r *ActivityRepo) ListAll(ctx context.Context) ([]model.Activity, error) {
	const q = `SELECT id, name, difficulty FROM activities ORDER BY id`
	out := []model.Activity{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, classify(err, "list activities")
	}
	return out, nil
}

func getActivity(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Activity, error) {
	var a model.Activity
	err := sqlx.GetContext(ctx, q, &a, `SELECT id, name, difficulty FROM activities WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "activity %d", id)
	}
	if err != nil {
		return nil, classify(err, "get activity")
	}
	return &a, nil
}

// Create inserts a new activity. On success the activity's ID field is
// populated with the auto-generated value.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity) error {
	const q = `INSERT INTO activities (name, difficulty) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.Difficulty)
	if err != nil {
		return classify(err, "create activity")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return classify(err, "create activity")
	}
	a.ID = uint64(id)
	return nil
}

// DeleteWithSignups removes an activity and every signup that references
// it in one transaction. It returns the removed activity and the number of
// signups removed with it. If the activity does not exist ErrNotFound is
// returned and nothing changes.
func (r *ActivityRepo) DeleteWithSignups(ctx context.Context, id uint64) (*model.Activity, int64, error) {
	var (
		activity *model.Activity
		removed  int64
	)
	err := inTx(ctx, r.db, "delete activity", func(tx *sqlx.Tx) error {
		// Verify activity exists
		var err error
		if activity, err = getActivity(ctx, tx, id); err != nil {
			return err
		}
		// Cascade delete: dependents first
		res, err := tx.ExecContext(ctx, `DELETE FROM signups WHERE activity_id = ?`, id)
		if err != nil {
			return err
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		// Finally delete the activity
		res, err = tx.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errors.Wrapf(ErrNotFound, "activity %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return activity, removed, nil
}
