package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-signup/internal/model"
)

func TestCamperCreateAssignsID(t *testing.T) {
	db := setupTestDB(t)
	c := model.Camper{Name: "Zoe", Age: 11}

	require.NoError(t, NewCamperRepo(db).Create(context.Background(), &c))
	assert.NotZero(t, c.ID)

	stored, err := NewCamperRepo(db).GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, *stored)
}

func TestCamperCreateRejectsConstraintViolations(t *testing.T) {
	cases := map[string]model.Camper{
		"age too low":  {Name: "Tiny", Age: model.MinCamperAge - 1},
		"age too high": {Name: "Grown", Age: model.MaxCamperAge + 1},
		"blank name":   {Name: "   ", Age: 10},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			db := setupTestDB(t)
			err := NewCamperRepo(db).Create(context.Background(), &c)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, countRows(t, db, "campers"))
		})
	}
}

func TestCamperGetMissing(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewCamperRepo(db).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewCamperRepo(db).GetDetail(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCamperGetDetailJoinsActivities(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	camper := seedCamper(t, db, "Caitlin", 14)
	other := seedCamper(t, db, "Nina", 9)
	archery := seedActivity(t, db, "Archery", 2)
	swim := seedActivity(t, db, "Swimming", 4)
	signups := NewSignupRepo(db)
	s1, err := signups.Create(ctx, camper.ID, archery.ID, 8)
	require.NoError(t, err)
	s2, err := signups.Create(ctx, camper.ID, swim.ID, 15)
	require.NoError(t, err)
	_, err = signups.Create(ctx, other.ID, swim.ID, 16)
	require.NoError(t, err)

	detail, err := NewCamperRepo(db).GetDetail(ctx, camper.ID)
	require.NoError(t, err)
	assert.Equal(t, camper, detail.Camper)
	require.Len(t, detail.Signups, 2)
	assert.Equal(t, s1.Signup, detail.Signups[0].Signup)
	assert.Equal(t, archery, detail.Signups[0].Activity)
	assert.Equal(t, s2.Signup, detail.Signups[1].Signup)
	assert.Equal(t, swim, detail.Signups[1].Activity)
}

func TestCamperUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	c := seedCamper(t, db, "Zoe", 11)
	age := 15

	updated, err := NewCamperRepo(db).Update(context.Background(), c.ID, CamperUpdate{Age: &age})
	require.NoError(t, err)
	assert.Equal(t, model.Camper{ID: c.ID, Name: "Zoe", Age: 15}, *updated)

	stored, err := NewCamperRepo(db).GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
}

func TestCamperUpdateOutOfRangeLeavesRowIntact(t *testing.T) {
	db := setupTestDB(t)
	c := seedCamper(t, db, "Zoe", 11)
	age := 42
	name := "Zed"

	_, err := NewCamperRepo(db).Update(context.Background(), c.ID, CamperUpdate{Name: &name, Age: &age})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := NewCamperRepo(db).GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, *stored)
}

func TestCamperUpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	name := "Ghost"

	_, err := NewCamperRepo(db).Update(context.Background(), 7, CamperUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCamperUpdateEmpty(t *testing.T) {
	assert.True(t, CamperUpdate{}.Empty())
	age := 9
	assert.False(t, CamperUpdate{Age: &age}.Empty())
}
