package middleware

import (
    "time"

    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
)

// RequestLogger writes one structured line per request.  Server errors log
// at error level, client errors at warn, the rest at info.  An error
// returned by the handler chain is logged with the line; it must therefore
// run inside any middleware that resolves errors itself, such as Metrics.
func RequestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            if err != nil {
                // let the HTTP error handler write the response so the
                // logged status matches what the client sees
                c.Error(err)
            }

            req, res := c.Request(), c.Response()
            status := res.Status
            var ev *zerolog.Event
            switch {
            case status >= 500:
                ev = logger.Error()
            case status >= 400:
                ev = logger.Warn()
            default:
                ev = logger.Info()
            }
            ev.Str("method", req.Method).
                Str("path", req.URL.Path).
                Str("route", c.Path()).
                Int("status", status).
                Int64("bytes", res.Size).
                Dur("latency", time.Since(start)).
                Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
                Str("remote_ip", c.RealIP()).
                Err(err).
                Msg("request")
            return nil
        }
    }
}
