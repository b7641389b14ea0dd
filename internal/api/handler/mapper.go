package handler

import (
	"time"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z"

// --- Request → Service input ---

func toCreateInput(req createNoteRequest, idempotencyKey string) ports.CreateNoteInput {
	return ports.CreateNoteInput{
		Title:          req.Title,
		Content:        req.Content,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		IdempotencyKey: idempotencyKey,
	}
}

func toNoteUpdate(req updateNoteRequest) domain.NoteUpdate {
	return domain.NoteUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}
}

// --- Domain → Response ---

func toNoteDTO(n *domain.Note) noteDTO {
	return noteDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Latitude:  n.Latitude,
		Longitude: n.Longitude,
		CreatedAt: formatTime(n.CreatedAt),
	}
}

func toNoteDTOs(notes []*domain.Note) []noteDTO {
	out := make([]noteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteDTO(n))
	}
	return out
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{ID: u.ID, Email: u.Email, UserName: u.UserName}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
