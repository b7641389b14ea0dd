package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/geonotes/notes-api/internal/api/metrics"
	"github.com/geonotes/notes-api/internal/core/domain"
)

// TokenVerifier is the part of the credential codec the gate needs.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Authenticate validates the bearer credential and attaches the caller's
// identity to the request context. It never writes a response itself.
func Authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "missing").Inc()
				return domain.Unauthenticated("No token provided")
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "invalid").Inc()
				return &domain.Error{Kind: domain.KindForbidden, Message: "Invalid token", Detail: err}
			}

			metrics.AuthDecisionsTotal.WithLabelValues("authenticate", "allowed").Inc()
			req := c.Request()
			c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), identity)))
			return next(c)
		}
	}
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
