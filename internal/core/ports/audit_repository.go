package ports

import (
	"context"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// AuditRepository persists the note audit trail.
type AuditRepository interface {
	// InsertEvent appends an event to the note_events collection.
	InsertEvent(ctx context.Context, event *domain.NoteEvent) error
}
