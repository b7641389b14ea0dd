package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

var errInvalidEvent = errors.New("invalid note event")

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process validates and persists a single note event.
func (s *auditService) Process(ctx context.Context, ev domain.NoteEvent) error {
	switch {
	case ev.NoteID == "":
		return fmt.Errorf("process audit event: %w: missing note id", errInvalidEvent)
	case ev.Action != domain.NoteCreated && ev.Action != domain.NoteUpdated && ev.Action != domain.NoteDeleted:
		return fmt.Errorf("process audit event: %w: action %q", errInvalidEvent, ev.Action)
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("process audit event: insert: %w", err)
	}

	s.log.Debug().
		Str("note_id", ev.NoteID).
		Str("action", string(ev.Action)).
		Str("actor_id", ev.ActorID).
		Msg("audit event recorded")

	return nil
}
