package handler // handler defines http handlers

import (
    "context"
    "net/http"
    "reflect"
    "strconv"
    "strings"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/camp-signup/internal/model"
    "github.com/iliyamo/camp-signup/internal/queue"
    "github.com/iliyamo/camp-signup/internal/repository"
)

// EventPublisher receives domain events after a write has committed.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.Event) error
}

// publishTimeout bounds how long a response waits on the broker.
const publishTimeout = 2 * time.Second

// validationErrors is the body of every 400 response.
var validationErrors = echo.Map{"errors": []string{"validation errors"}}

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
    v *validator.Validate
}

// NewValidator builds the validator used for request bodies.  Besides the
// built-in tags it knows:
//
//  nonblank     string not empty after trimming
//  camper_age   integer within [model.MinCamperAge, model.MaxCamperAge]
//  signup_hour  integer within [model.MinSignupTime, model.MaxSignupTime]
func NewValidator() *RequestValidator {
    v := validator.New()
    _ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
        return strings.TrimSpace(fl.Field().String()) != ""
    })
    _ = v.RegisterValidation("camper_age", intWithin(model.MinCamperAge, model.MaxCamperAge))
    _ = v.RegisterValidation("signup_hour", intWithin(model.MinSignupTime, model.MaxSignupTime))
    return &RequestValidator{v: v}
}

func intWithin(low, high int64) validator.Func {
    return func(fl validator.FieldLevel) bool {
        switch fl.Field().Kind() {
        case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
            n := fl.Field().Int()
            return n >= low && n <= high
        }
        return false
    }
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
    return rv.v.Struct(i)
}

// parseID reads the :id path parameter.  Only positive integers match,
// anything else is reported as not found by the callers.
func parseID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

func notFound(c echo.Context, entity string) error {
    return c.JSON(http.StatusNotFound, echo.Map{"error": entity + " not found"})
}

func badRequest(c echo.Context, cause error) error {
    requestLog(c).Debug().Err(cause).Msg("rejected request")
    return c.JSON(http.StatusBadRequest, validationErrors)
}

// writeRepoError maps the repository error taxonomy onto responses.
// Storage failures answer 500 rather than 400 so clients can tell an
// outage from a bad request.
func writeRepoError(c echo.Context, err error, entity string) error {
    switch {
    case errors.Is(err, repository.ErrNotFound):
        return notFound(c, entity)
    case errors.Is(err, repository.ErrValidation):
        return badRequest(c, err)
    default:
        requestLog(c).Error().Stack().Err(err).Msg("storage failure")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage failure"})
    }
}

// publish hands ev to the publisher.  Failures are logged and never reach
// the client; the write they describe has already committed.
func publish(c echo.Context, p EventPublisher, ev queue.Event) {
    if p == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
    defer cancel()
    if err := p.Publish(ctx, ev); err != nil {
        requestLog(c).Warn().Err(err).Str("event", ev.Type).Msg("publish event failed")
    }
}

func requestLog(c echo.Context) *zerolog.Logger {
    l := log.With().
        Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
        Str("route", c.Path()).
        Logger()
    return &l
}
