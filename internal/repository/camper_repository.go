package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/camp-signup/internal/model"
)

// CamperUpdate lists the camper attributes that may change after creation.
// A nil field is left untouched.
type CamperUpdate struct {
	Name *string
	Age  *int
}

// Empty reports whether the update changes nothing.
func (u CamperUpdate) Empty() bool {
	return u.Name == nil && u.Age == nil
}

// CamperRepo encapsulates all database queries related to campers.
type CamperRepo struct {
	db *sqlx.DB
}

// NewCamperRepo constructs a CamperRepo with the provided DB handle.
func NewCamperRepo(db *sqlx.DB) *CamperRepo {
	return &CamperRepo{db: db}
}

// ListAll returns every camper ordered by id.
func (r *CamperRepo) ListAll(ctx context.Context) ([]model.Camper, error) {
	const q = `SELECT id, name, age FROM campers ORDER BY id`
	out := []model.Camper{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, classify(err, "list campers")
	}
	return out, nil
}

// GetByID fetches a camper by id or returns ErrNotFound.
func (r *CamperRepo) GetByID(ctx context.Context, id uint64) (*model.Camper, error) {
	return getCamper(ctx, r.db, id)
}

func getCamper(ctx context.Context, q sqlx.QueryerContext, id uint64) (*model.Camper, error) {
	var c model.Camper
	err := sqlx.GetContext(ctx, q, &c, `SELECT id, name, age FROM campers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "camper %d", id)
	}
	if err != nil {
		return nil, classify(err, "get camper")
	}
	return &c, nil
}

// GetDetail fetches a camper together with its signups and the activity of
// each signup, ordered by signup id.
func (r *CamperRepo) GetDetail(ctx context.Context, id uint64) (*model.CamperDetail, error) {
	c, err := getCamper(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	const q = `SELECT s.id, s.camper_id, s.activity_id, s.time,
	                  a.id AS "activity.id", a.name AS "activity.name", a.difficulty AS "activity.difficulty"
	           FROM signups s
	           JOIN activities a ON a.id = s.activity_id
	           WHERE s.camper_id = ?
	           ORDER BY s.id`
	signups := []model.SignupWithActivity{}
	if err := r.db.SelectContext(ctx, &signups, q, id); err != nil {
		return nil, classify(err, "list camper signups")
	}
	return &model.CamperDetail{Camper: *c, Signups: signups}, nil
}

// Create inserts a new camper and populates its ID. Constraint violations
// (empty name, age out of range) are reported as ErrValidation and leave
// nothing behind.
func (r *CamperRepo) Create(ctx context.Context, c *model.Camper) error {
	return inTx(ctx, r.db, "create camper", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO campers (name, age) VALUES (?, ?)`, c.Name, c.Age)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		c.ID = uint64(id)
		return nil
	})
}

// Update applies the non-nil fields of u to the camper and returns the
// stored row. ErrNotFound is returned when the camper does not exist and
// ErrValidation when the new values break a constraint; in both cases the
// row is unchanged.
func (r *CamperRepo) Update(ctx context.Context, id uint64, u CamperUpdate) (*model.Camper, error) {
	var out *model.Camper
	err := inTx(ctx, r.db, "update camper", func(tx *sqlx.Tx) error {
		c, err := getCamper(ctx, tx, id)
		if err != nil {
			return err
		}
		if u.Name != nil {
			c.Name = *u.Name
		}
		if u.Age != nil {
			c.Age = *u.Age
		}
		if _, err := tx.ExecContext(ctx, `UPDATE campers SET name = ?, age = ? WHERE id = ?`, c.Name, c.Age, id); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
