package ports

import (
	"context"

	"github.com/geonotes/notes-api/internal/core/domain"
)

// NoteRepository defines persistence operations for notes.
//
// Update and Delete take an authorID filter: when non-empty the note must
// also belong to that author, otherwise domain.ErrRecordNotFound is returned
// exactly as for a missing id.
type NoteRepository interface {
	FindByAuthor(ctx context.Context, authorID string) ([]*domain.Note, error)
	FindAll(ctx context.Context) ([]*domain.Note, error)
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	Create(ctx context.Context, note *domain.Note) (*domain.Note, error)
	Update(ctx context.Context, id, authorID string, update domain.NoteUpdate) (*domain.Note, error)
	Delete(ctx context.Context, id, authorID string) (*domain.Note, error)
}

// IdempotencyStore remembers which note an Idempotency-Key produced.
type IdempotencyStore interface {
	// Lookup returns the note id stored for key, or ok=false when unseen.
	Lookup(ctx context.Context, authorID, key string) (noteID string, ok bool, err error)
	Remember(ctx context.Context, authorID, key, noteID string) error
}
