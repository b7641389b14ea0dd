package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

// NoteService implements note use cases on top of a NoteRepository.
type NoteService struct {
	repo   ports.NoteRepository
	idem   ports.IdempotencyStore
	audit  ports.AuditRecorder
	logger zerolog.Logger
}

// NewNoteService wires the service. idem and audit are optional; a nil
// idempotency store disables Idempotency-Key replay and a nil recorder
// disables the audit trail.
func NewNoteService(
	repo ports.NoteRepository,
	idem ports.IdempotencyStore,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *NoteService {
	return &NoteService{repo: repo, idem: idem, audit: audit, logger: logger}
}

func (s *NoteService) ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Note, error) {
	notes, err := s.repo.FindByAuthor(ctx, caller.ID)
	if err != nil {
		return nil, domain.Internal("Database error", err)
	}
	return notes, nil
}

func (s *NoteService) ListAll(ctx context.Context) ([]*domain.Note, error) {
	notes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, domain.Internal("Database error", err)
	}
	return notes, nil
}

// Create stores a new note. If an idempotency key was already used by the
// same author, the note it produced is returned without side effects.
func (s *NoteService) Create(ctx context.Context, caller domain.Identity, in ports.CreateNoteInput) (*domain.Note, error) {
	if existing := s.replay(ctx, caller.ID, in.IdempotencyKey); existing != nil {
		return existing, nil
	}

	created, err := s.repo.Create(ctx, &domain.Note{
		Title:     in.Title,
		Content:   in.Content,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		AuthorID:  caller.ID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, domain.Internal("Failed to save the note", err)
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, caller.ID, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("note_id", created.ID).Msg("failed to store idempotency key")
		}
	}

	s.record(caller, created, domain.NoteCreated)
	s.logger.Info().Str("note_id", created.ID).Str("author_id", caller.ID).Msg("note created")
	return created, nil
}

// Update applies a partial update. Non-admin callers only see their own notes.
func (s *NoteService) Update(ctx context.Context, caller domain.Identity, id string, upd domain.NoteUpdate) (*domain.Note, error) {
	if upd.Empty() {
		return nil, domain.BadRequest("No fields to update")
	}

	note, err := s.repo.Update(ctx, id, ownerScope(caller), upd)
	if err != nil {
		return nil, storeError(err, "Note not found")
	}

	s.record(caller, note, domain.NoteUpdated)
	return note, nil
}

// Delete removes a note and returns it. Non-admin callers only see their own notes.
func (s *NoteService) Delete(ctx context.Context, caller domain.Identity, id string) (*domain.Note, error) {
	note, err := s.repo.Delete(ctx, id, ownerScope(caller))
	if err != nil {
		return nil, storeError(err, "Note not found")
	}

	s.record(caller, note, domain.NoteDeleted)
	s.logger.Info().Str("note_id", note.ID).Str("actor_id", caller.ID).Msg("note deleted")
	return note, nil
}

func (s *NoteService) replay(ctx context.Context, authorID, key string) *domain.Note {
	if key == "" || s.idem == nil {
		return nil
	}

	noteID, ok, err := s.idem.Lookup(ctx, authorID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}

	note, err := s.repo.FindByID(ctx, noteID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		// The note behind the key was deleted; create a fresh one.
		s.logger.Debug().Str("idempotency_key", key).Str("note_id", noteID).Msg("replayed note gone")
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Str("note_id", noteID).Msg("idempotent replay lookup failed, creating anyway")
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("note_id", note.ID).Msg("idempotent replay")
	return note
}

func (s *NoteService) record(caller domain.Identity, note *domain.Note, action domain.NoteAction) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.NoteEvent{
		NoteID:    note.ID,
		AuthorID:  note.AuthorID,
		ActorID:   caller.ID,
		ActorRole: caller.Role,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
}

// ownerScope returns the author filter for a mutation: admins are unscoped.
func ownerScope(caller domain.Identity) string {
	if caller.IsAdmin() {
		return ""
	}
	return caller.ID
}

func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.NotFound(notFoundMsg)
	}
	return domain.Internal("Database error", err)
}
