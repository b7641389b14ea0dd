package api

import "github.com/geonotes/notes-api/internal/core/domain"

// Route policies are declared once here and shared by every route that uses
// them. A misdeclared policy panics while the package initialises.
var (
	membersPolicy = domain.MustAccessPolicy("members", domain.RoleUser, domain.RoleAdmin)
	adminsPolicy  = domain.MustAccessPolicy("admins", domain.RoleAdmin)
)
