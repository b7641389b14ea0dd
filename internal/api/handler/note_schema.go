package handler

// --- Request / Response types ---

type createNoteRequest struct {
	Title     string   `json:"title"     validate:"required"`
	Content   string   `json:"content"   validate:"required"`
	Latitude  *float64 `json:"latitude"  validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

// updateNoteRequest carries a partial update; absent fields stay unchanged.
type updateNoteRequest struct {
	Title     *string  `json:"title"     validate:"omitempty,min=1"`
	Content   *string  `json:"content"`
	Latitude  *float64 `json:"latitude"  validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type noteDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"createdAt" example:"2024-05-01T12:00:00.000Z"`
}

type noteResponse struct {
	Success bool    `json:"success"`
	Note    noteDTO `json:"note"`
}

type notesResponse struct {
	Success bool      `json:"success"`
	Notes   []noteDTO `json:"notes"`
}
