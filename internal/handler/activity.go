package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/samber/lo"

    "github.com/iliyamo/camp-signup/internal/model"
    "github.com/iliyamo/camp-signup/internal/queue"
    "github.com/iliyamo/camp-signup/internal/repository"
)

// ActivityResponse is the list representation of an activity; signups
// are never included.
type ActivityResponse struct {
    ID         uint64 `json:"id"`
    Name       string `json:"name"`
    Difficulty int    `json:"difficulty"`
}

func toActivityResponse(a model.Activity) ActivityResponse {
    return ActivityResponse{ID: a.ID, Name: a.Name, Difficulty: a.Difficulty}
}

// ActivityHandler serves the activity collection and item endpoints.
type ActivityHandler struct {
    Repo   *repository.ActivityRepo
    Events EventPublisher
}

// NewActivityHandler panics when repo is nil.
func NewActivityHandler(repo *repository.ActivityRepo, events EventPublisher) *ActivityHandler {
    if repo == nil {
        panic("nil repository passed to NewActivityHandler")
    }
    return &ActivityHandler{Repo: repo, Events: events}
}

// List handles GET /activities.
func (h *ActivityHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return writeRepoError(c, err, "Activity")
    }
    return c.JSON(http.StatusOK, lo.Map(items, func(a model.Activity, _ int) ActivityResponse {
        return toActivityResponse(a)
    }))
}

// Delete handles DELETE /activities/:id. It removes the activity and every
// signup referencing it, then answers 204 with no body; 404 when the
// activity does not exist.
func (h *ActivityHandler) Delete(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return notFound(c, "Activity")
    }
    activity, removed, err := h.Repo.DeleteWithSignups(c.Request().Context(), id)
    if err != nil {
        return writeRepoError(c, err, "Activity")
    }
    publish(c, h.Events, queue.ActivityDeleted(*activity, removed))
    return c.NoContent(http.StatusNoContent)
}
