package ports

import (
	"context"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// CreateNoteInput carries the data needed to create a note.
type CreateNoteInput struct {
	Title     string
	Content   string
	Latitude  float64
	Longitude float64
	// IdempotencyKey, when set, makes retries return the first result.
	IdempotencyKey string
}

// NoteService defines note use cases. The caller identity decides
// ownership scoping; failures are *domain.Error.
type NoteService interface {
	ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Note, error)
	ListAll(ctx context.Context) ([]*domain.Note, error)
	Create(ctx context.Context, caller domain.Identity, input CreateNoteInput) (*domain.Note, error)
	Update(ctx context.Context, caller domain.Identity, id string, update domain.NoteUpdate) (*domain.Note, error)
	Delete(ctx context.Context, caller domain.Identity, id string) (*domain.Note, error)
}
