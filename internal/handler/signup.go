package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/camp-signup/internal/model"
    "github.com/iliyamo/camp-signup/internal/queue"
    "github.com/iliyamo/camp-signup/internal/repository"
)

// SignupResponse is the composite returned after creating a signup.
type SignupResponse struct {
    ID         uint64           `json:"id"`
    CamperID   uint64           `json:"camper_id"`
    ActivityID uint64           `json:"activity_id"`
    Time       int              `json:"time"`
    Activity   ActivityResponse `json:"activity"`
    Camper     CamperResponse   `json:"camper"`
}

func toSignupResponse(s model.SignupDetail) SignupResponse {
    return SignupResponse{
        ID:         s.ID,
        CamperID:   s.CamperID,
        ActivityID: s.ActivityID,
        Time:       s.Time,
        Activity:   toActivityResponse(s.Activity),
        Camper:     toCamperResponse(s.Camper),
    }
}

type createSignupRequest struct {
    CamperID   *uint64 `json:"camper_id" validate:"required"`
    ActivityID *uint64 `json:"activity_id" validate:"required"`
    Time       *int    `json:"time" validate:"required,signup_hour"`
}

// SignupHandler serves signup creation.
type SignupHandler struct {
    Repo   *repository.SignupRepo
    Events EventPublisher
}

// NewSignupHandler panics when repo is nil.
func NewSignupHandler(repo *repository.SignupRepo, events EventPublisher) *SignupHandler {
    if repo == nil {
        panic("nil repository passed to NewSignupHandler")
    }
    return &SignupHandler{Repo: repo, Events: events}
}

// Create handles POST /signups.  A camper or activity that does not exist
// is a validation failure (400), as is an hour outside 0-23.
func (h *SignupHandler) Create(c echo.Context) error {
    var body createSignupRequest
    if err := c.Bind(&body); err != nil {
        return badRequest(c, err)
    }
    if err := c.Validate(&body); err != nil {
        return badRequest(c, err)
    }
    signup, err := h.Repo.Create(c.Request().Context(), *body.CamperID, *body.ActivityID, *body.Time)
    if err != nil {
        return writeRepoError(c, err, "Signup")
    }
    publish(c, h.Events, queue.SignupCreated(*signup))
    return c.JSON(http.StatusOK, toSignupResponse(*signup))
}
