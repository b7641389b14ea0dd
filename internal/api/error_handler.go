package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/api/metrics"
	"github.com/geonotes/notes-api/internal/core/domain"
)

const internalServerError = "Internal Server Error"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewHTTPErrorHandler returns the terminal stage of the request pipeline:
//   - *domain.Error is rendered with the status of its Kind.
//   - *echo.HTTPError (router 404/405, bind failures) keeps its own code.
//   - Anything else is logged and rendered as a generic 500.
//
// The body is always {"success": false, "error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, kind := resolveError(err)
		metrics.PipelineErrorsTotal.WithLabelValues(kind).Inc()
		logError(log, c, err, code, msg, kind)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Error: msg})
	}
}

func resolveError(err error) (int, string, string) {
	if de, ok := domain.AsError(err); ok {
		return statusForKind(de.Kind), de.Message, de.Kind.String()
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprintf("%v", he.Message)
		}
		return he.Code, msg, kindForStatus(he.Code)
	}

	return http.StatusInternalServerError, internalServerError, domain.KindInternal.String()
}

func statusForKind(k domain.Kind) int {
	switch k {
	case domain.KindBadRequest:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return domain.KindBadRequest.String()
	case http.StatusUnauthorized:
		return domain.KindUnauthenticated.String()
	case http.StatusForbidden:
		return domain.KindForbidden.String()
	case http.StatusNotFound:
		return domain.KindNotFound.String()
	case http.StatusConflict:
		return domain.KindConflict.String()
	}
	if code >= 500 {
		return domain.KindInternal.String()
	}
	return "http_" + strconv.Itoa(code)
}

// logError records the real cause. 4xx are warnings, 5xx are errors.
func logError(log zerolog.Logger, c echo.Context, err error, code int, msg, kind string) {
	ev := log.Warn()
	if code >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("kind", kind).
		Str("client_message", msg).
		Int("status", code).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("request failed")
}
