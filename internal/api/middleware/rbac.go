package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/geonotes/notes-api/internal/api/metrics"
	"github.com/geonotes/notes-api/internal/core/domain"
)

// Authorize admits callers whose role is in policy. It must run after
// Authenticate.
func Authorize(policy domain.AccessPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := domain.IdentityFromContext(c.Request().Context())
			if !ok {
				metrics.AuthDecisionsTotal.WithLabelValues("authorize", "missing").Inc()
				return domain.Unauthenticated("No user information")
			}
			if !policy.Allows(identity.Role) {
				metrics.AuthDecisionsTotal.WithLabelValues("authorize", "denied").Inc()
				return domain.Forbidden("Insufficient permissions")
			}
			metrics.AuthDecisionsTotal.WithLabelValues("authorize", "allowed").Inc()
			return next(c)
		}
	}
}
