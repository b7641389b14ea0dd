package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// caller extracts the identity attached by the Authenticate middleware.
// Its absence means the route was registered without the gate, which is
// reported the same way the Authorize stage would.
func caller(c echo.Context) (domain.Identity, error) {
	id, ok := domain.IdentityFromContext(c.Request().Context())
	if !ok || id.ID == "" {
		return domain.Identity{}, domain.Unauthenticated("No user information")
	}
	return id, nil
}
