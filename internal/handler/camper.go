package handler

import (
    "bytes"
    "encoding/json"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/samber/lo"

    "github.com/iliyamo/camp-signup/internal/model"
    "github.com/iliyamo/camp-signup/internal/queue"
    "github.com/iliyamo/camp-signup/internal/repository"
)

// CamperResponse is the summary representation of a camper.
type CamperResponse struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
    Age  int    `json:"age"`
}

// CamperSignupResponse is one signup inside a camper detail.
type CamperSignupResponse struct {
    ID         uint64           `json:"id"`
    Time       int              `json:"time"`
    CamperID   uint64           `json:"camper_id"`
    ActivityID uint64           `json:"activity_id"`
    Activity   ActivityResponse `json:"activity"`
}

// CamperDetailResponse is a camper with its signups.
type CamperDetailResponse struct {
    ID      uint64                 `json:"id"`
    Name    string                 `json:"name"`
    Age     int                    `json:"age"`
    Signups []CamperSignupResponse `json:"signups"`
}

func toCamperResponse(c model.Camper) CamperResponse {
    return CamperResponse{ID: c.ID, Name: c.Name, Age: c.Age}
}

func toCamperDetailResponse(d model.CamperDetail) CamperDetailResponse {
    return CamperDetailResponse{
        ID:   d.ID,
        Name: d.Name,
        Age:  d.Age,
        Signups: lo.Map(d.Signups, func(s model.SignupWithActivity, _ int) CamperSignupResponse {
            return CamperSignupResponse{
                ID:         s.ID,
                Time:       s.Time,
                CamperID:   s.CamperID,
                ActivityID: s.ActivityID,
                Activity:   toActivityResponse(s.Activity),
            }
        }),
    }
}

// createCamperRequest is the POST /campers body.  Pointers tell a missing
// field apart from a zero value.
type createCamperRequest struct {
    Name *string `json:"name" validate:"required,nonblank"`
    Age  *int    `json:"age" validate:"required,camper_age"`
}

// camperPatch holds the attributes PATCH may change.  Keys outside this
// allow-list are rejected.
type camperPatch struct {
    Name *string `json:"name" validate:"omitempty,nonblank"`
    Age  *int    `json:"age" validate:"omitempty,camper_age"`
}

// CamperHandler serves the camper collection and item endpoints.
type CamperHandler struct {
    Repo   *repository.CamperRepo
    Events EventPublisher
}

// NewCamperHandler panics when repo is nil.
func NewCamperHandler(repo *repository.CamperRepo, events EventPublisher) *CamperHandler {
    if repo == nil {
        panic("nil repository passed to NewCamperHandler")
    }
    return &CamperHandler{Repo: repo, Events: events}
}

// List handles GET /campers.
func (h *CamperHandler) List(c echo.Context) error {
    items, err := h.Repo.ListAll(c.Request().Context())
    if err != nil {
        return writeRepoError(c, err, "Camper")
    }
    return c.JSON(http.StatusOK, lo.Map(items, func(cm model.Camper, _ int) CamperResponse {
        return toCamperResponse(cm)
    }))
}

// Create handles POST /campers.  Any binding, validation or constraint
// failure answers 400 and stores nothing.
func (h *CamperHandler) Create(c echo.Context) error {
    var body createCamperRequest
    if err := c.Bind(&body); err != nil {
        return badRequest(c, err)
    }
    if err := c.Validate(&body); err != nil {
        return badRequest(c, err)
    }
    camper := model.Camper{Name: *body.Name, Age: *body.Age}
    if err := h.Repo.Create(c.Request().Context(), &camper); err != nil {
        return writeRepoError(c, err, "Camper")
    }
    publish(c, h.Events, queue.CamperCreated(camper))
    return c.JSON(http.StatusOK, toCamperResponse(camper))
}

// Get handles GET /campers/:id and returns the camper with nested signups.
func (h *CamperHandler) Get(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return notFound(c, "Camper")
    }
    detail, err := h.Repo.GetDetail(c.Request().Context(), id)
    if err != nil {
        return writeRepoError(c, err, "Camper")
    }
    return c.JSON(http.StatusOK, toCamperDetailResponse(*detail))
}

// Update handles PATCH /campers/:id.  Only name and age may be supplied;
// the row is left untouched unless every supplied value is valid.
func (h *CamperHandler) Update(c echo.Context) error {
    id, ok := parseID(c)
    if !ok {
        return notFound(c, "Camper")
    }
    ctx := c.Request().Context()
    // 404 takes precedence over a bad body
    if _, err := h.Repo.GetByID(ctx, id); err != nil {
        return writeRepoError(c, err, "Camper")
    }
    patch, err := decodeCamperPatch(c)
    if err != nil {
        return badRequest(c, err)
    }
    if err := c.Validate(&patch); err != nil {
        return badRequest(c, err)
    }
    update := repository.CamperUpdate{Name: patch.Name, Age: patch.Age}

    var camper *model.Camper
    if update.Empty() {
        camper, err = h.Repo.GetByID(ctx, id)
    } else {
        camper, err = h.Repo.Update(ctx, id, update)
    }
    if err != nil {
        return writeRepoError(c, err, "Camper")
    }
    if !update.Empty() {
        publish(c, h.Events, queue.CamperUpdated(*camper))
    }
    return c.JSON(http.StatusAccepted, toCamperResponse(*camper))
}

// decodeCamperPatch reads a JSON object and keeps only allow-listed keys.
// Unknown keys and explicit nulls are errors.
func decodeCamperPatch(c echo.Context) (camperPatch, error) {
    var patch camperPatch
    var raw map[string]json.RawMessage
    if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
        return patch, errors.Wrap(err, "decode patch")
    }
    if raw == nil {
        return patch, errors.New("patch body must be a JSON object")
    }
    for key, val := range raw {
        if bytes.Equal(bytes.TrimSpace(val), []byte("null")) {
            return patch, errors.Errorf("attribute %q cannot be null", key)
        }
        var err error
        switch key {
        case "name":
            err = json.Unmarshal(val, &patch.Name)
        case "age":
            err = json.Unmarshal(val, &patch.Age)
        default:
            return patch, errors.Errorf("attribute %q cannot be changed", key)
        }
        if err != nil {
            return patch, errors.Wrapf(err, "attribute %q", key)
        }
    }
    return patch, nil
}
