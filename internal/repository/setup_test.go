package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-signup/internal/model"
	"github.com/iliyamo/camp-signup/internal/testsupport"
)

func setupTestDB(tb testing.TB) *sqlx.DB {
	return testsupport.NewSQLiteDB(tb)
}

func countRows(tb testing.TB, db *sqlx.DB, table string) int {
	return testsupport.CountRows(tb, db, table)
}

func seedActivity(tb testing.TB, db *sqlx.DB, name string, difficulty int) model.Activity {
	tb.Helper()
	a := model.Activity{Name: name, Difficulty: difficulty}
	require.NoError(tb, NewActivityRepo(db).Create(context.Background(), &a))
	return a
}

func seedCamper(tb testing.TB, db *sqlx.DB, name string, age int) model.Camper {
	tb.Helper()
	c := model.Camper{Name: name, Age: age}
	require.NoError(tb, NewCamperRepo(db).Create(context.Background(), &c))
	return c
}
