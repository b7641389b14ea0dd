package domain

import "time"

// NoteAction names a mutation recorded in the note audit trail.
type NoteAction string

const (
	NoteCreated NoteAction = "created"
	NoteUpdated NoteAction = "updated"
	NoteDeleted NoteAction = "deleted"
)

// NoteEvent is one entry of the note audit trail.
type NoteEvent struct {
	NoteID    string
	AuthorID  string
	ActorID   string
	ActorRole Role
	Action    NoteAction
	Timestamp time.Time
}
