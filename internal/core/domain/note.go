package domain

import "time"

// Note is a geotagged text entry owned by a single author.
type Note struct {
	ID        string
	Title     string
	Content   string
	Latitude  float64
	Longitude float64
	AuthorID  string
	CreatedAt time.Time
}

// NoteUpdate carries a partial update; nil fields are left untouched.
type NoteUpdate struct {
	Title     *string
	Content   *string
	Latitude  *float64
	Longitude *float64
}

// Empty reports whether the update would change nothing.
func (u NoteUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Latitude == nil && u.Longitude == nil
}
