package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/geonotes/notes-api/internal/api/metrics"
	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

// HeaderIdempotencyKey makes POST /notes safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

// NoteHandler handles HTTP requests for note operations.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// ListMine handles GET /api/notes.
//
// @Summary      List the caller's notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /notes [get]
func (h *NoteHandler) ListMine(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	notes, err := h.service.ListMine(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notesResponse{Success: true, Notes: toNoteDTOs(notes)})
}

// ListAll handles GET /api/notes/all. Admin only.
//
// @Summary      List every note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /notes/all [get]
func (h *NoteHandler) ListAll(c echo.Context) error {
	notes, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notesResponse{Success: true, Notes: toNoteDTOs(notes)})
}

// Create handles POST /api/notes.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the first result for the same key"
// @Param        body             body      createNoteRequest  true   "Note"
// @Success      201              {object}  noteResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	note, err := h.service.Create(c.Request().Context(), id, toCreateInput(req, key))
	if err != nil {
		return err
	}

	metrics.NotesMutationsTotal.WithLabelValues(string(domain.NoteCreated)).Inc()
	return c.JSON(http.StatusCreated, noteResponse{Success: true, Note: toNoteDTO(note)})
}

// Update handles PATCH /api/notes/:id.
//
// @Summary      Update a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Note id"
// @Param        body  body      updateNoteRequest  true  "Fields to change"
// @Success      200   {object}  noteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /notes/{id} [patch]
func (h *NoteHandler) Update(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req updateNoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	note, err := h.service.Update(c.Request().Context(), id, c.Param("id"), toNoteUpdate(req))
	if err != nil {
		return err
	}

	metrics.NotesMutationsTotal.WithLabelValues(string(domain.NoteUpdated)).Inc()
	return c.JSON(http.StatusOK, noteResponse{Success: true, Note: toNoteDTO(note)})
}

// Delete handles DELETE /api/notes/:id.
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note id"
// @Success      200  {object}  noteResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	note, err := h.service.Delete(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.NotesMutationsTotal.WithLabelValues(string(domain.NoteDeleted)).Inc()
	return c.JSON(http.StatusOK, noteResponse{Success: true, Note: toNoteDTO(note)})
}
