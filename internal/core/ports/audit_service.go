package ports

import (
	"context"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// AuditRecorder accepts note events for asynchronous recording.
// Record must not block the request on persistence.
type AuditRecorder interface {
	Record(event domain.NoteEvent)
}

// AuditService processes a single recorded event.
type AuditService interface {
	Process(ctx context.Context, event domain.NoteEvent) error
}
