package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/camp-signup/internal/queue"
	"github.com/iliyamo/camp-signup/internal/testsupport"
)

func TestActivityListEmpty(t *testing.T) {
	f := newFixture(t)

	rec := f.call(t, f.activity.List, http.MethodGet, "/activities", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestActivityListOmitsSignups(t *testing.T) {
	f := newFixture(t)
	a := f.seedActivity(t, "Archery", 2)
	c := f.seedCamper(t, "Zoe", 11)
	_, err := f.signup.Repo.Create(t.Context(), c.ID, a.ID, 9)
	require.NoError(t, err)

	rec := f.call(t, f.activity.List, http.MethodGet, "/activities", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Archery","difficulty":2}]`, rec.Body.String())
}

func TestActivityDelete(t *testing.T) {
	f := newFixture(t)
	a := f.seedActivity(t, "Archery", 2)
	c := f.seedCamper(t, "Zoe", 11)
	_, err := f.signup.Repo.Create(t.Context(), c.ID, a.ID, 9)
	require.NoError(t, err)

	rec := f.call(t, f.activity.Delete, http.MethodDelete, "/activities/1", "1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 0, testsupport.CountRows(t, f.db, "activities"))
	assert.Equal(t, 0, testsupport.CountRows(t, f.db, "signups"))

	require.Len(t, f.events.events, 1)
	assert.Equal(t, queue.TypeActivityDeleted, f.events.events[0].Type)
	assert.EqualValues(t, 1, f.events.events[0].RemovedSignups)
	assert.Equal(t, a.ID, f.events.events[0].ActivityID)
	assert.Equal(t, "Archery", f.events.events[0].ActivityName)
}

func TestActivityDeleteNotFound(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t, "Archery", 2)

	for _, id := range []string{"99", "abc", "0"} {
		rec := f.call(t, f.activity.Delete, http.MethodDelete, "/activities/"+id, id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, id)
		assert.JSONEq(t, `{"error":"Activity not found"}`, rec.Body.String())
	}
	assert.Equal(t, 1, testsupport.CountRows(t, f.db, "activities"))
	assert.Empty(t, f.events.events)
}

func TestActivityDeleteStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t, "Archery", 2)
	require.NoError(t, f.db.Close())

	rec := f.call(t, f.activity.Delete, http.MethodDelete, "/activities/1", "1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"storage failure"}`, rec.Body.String())
}

func TestActivityDeleteIgnoresPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.seedActivity(t, "Archery", 2)
	f.events.err = errors.New("broker down")

	rec := f.call(t, f.activity.Delete, http.MethodDelete, "/activities/1", "1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, testsupport.CountRows(t, f.db, "activities"))
}
