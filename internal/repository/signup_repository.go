package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/camp-signup/internal/model"
)

// SignupRepo encapsulates all database queries related to signups.
type SignupRepo struct {
	db *sqlx.DB
}

// NewSignupRepo constructs a SignupRepo with the provided DB handle.
func NewSignupRepo(db *sqlx.DB) *SignupRepo {
	return &SignupRepo{db: db}
}

// Create links a camper to an activity at the given hour. Both parents are
// resolved inside the same transaction as the insert; an unresolved parent
// is a validation failure, not a missing resource, because the signup
// itself is what is being created. The returned detail carries both
// parents as stored.
func (r *SignupRepo) Create(ctx context.Context, camperID, activityID uint64, hour int) (*model.SignupDetail, error) {
	var out *model.SignupDetail
	err := inTx(ctx, r.db, "create signup", func(tx *sqlx.Tx) error {
		camper, err := getCamper(ctx, tx, camperID)
		if err != nil {
			return asValidation(err)
		}
		activity, err := getActivity(ctx, tx, activityID)
		if err != nil {
			return asValidation(err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO signups (camper_id, activity_id, time) VALUES (?, ?, ?)`,
			camper.ID, activity.ID, hour)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		out = &model.SignupDetail{
			Signup: model.Signup{
				ID:         uint64(id),
				CamperID:   camper.ID,
				ActivityID: activity.ID,
				Time:       hour,
			},
			Activity: *activity,
			Camper:   *camper,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// asValidation re-labels a missing parent as a validation failure.
func asValidation(err error) error {
	if errors.Is(err, ErrNotFound) {
		return errors.Wrapf(ErrValidation, "%v", err)
	}
	return err
}
