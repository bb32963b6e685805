package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

// NoteHandler serves the notes of the authenticated user.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// List handles GET /api/v1/notes.
//
// @Summary      List notes
// @Tags         notes
// @Produce      json
// @Security     SessionToken
// @Param        with_content  query     bool  false  "Include note text"
// @Success      200           {array}   noteListItem
// @Failure      401           {object}  errorsResponse
// @Router       /api/v1/notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	withText, _ := strconv.ParseBool(c.QueryParam("with_content"))

	items, err := h.service.ListNotes(c.Request().Context(), user.ID, withText)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteList(items))
}

// Create handles POST /api/v1/notes.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        body  body      createNoteRequest  false  "Optional note name"
// @Success      201   {object}  noteResponse
// @Failure      401   {object}  errorsResponse
// @Router       /api/v1/notes [post]
func (h *NoteHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	note, err := h.service.CreateNote(c.Request().Context(), user.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// Get handles GET /api/v1/notes/:id.
//
// @Summary      Get a note
// @Tags         notes
// @Produce      json
// @Security     SessionToken
// @Param        id   path      int  true  "Note ID"
// @Success      200  {object}  noteResponse
// @Failure      401  {object}  errorsResponse
// @Failure      404  {object}  errorsResponse
// @Router       /api/v1/notes/{id} [get]
func (h *NoteHandler) Get(c echo.Context) error {
	user, id, err := h.target(c)
	if err != nil {
		return err
	}

	note, err := h.service.GetNote(c.Request().Context(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// Rename handles PATCH /api/v1/notes/:id.
//
// @Summary      Rename a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id    path      int                true  "Note ID"
// @Param        body  body      renameNoteRequest  true  "New name; empty or absent resets to Unnamed"
// @Success      200   {object}  noteResponse
// @Failure      401   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Router       /api/v1/notes/{id} [patch]
func (h *NoteHandler) Rename(c echo.Context) error {
	user, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req renameNoteRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}

	note, err := h.service.RenameNote(c.Request().Context(), id, user.ID, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// WriteText handles PUT /api/v1/notes/:id.
//
// @Summary      Replace note text
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id    path      int               true  "Note ID"
// @Param        body  body      writeNoteRequest  true  "New text"
// @Success      200   {object}  noteResponse
// @Failure      400   {object}  errorsResponse
// @Failure      401   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Router       /api/v1/notes/{id} [put]
func (h *NoteHandler) WriteText(c echo.Context) error {
	user, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req writeNoteRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.service.WriteNoteText(c.Request().Context(), id, user.ID, *req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// WriteDiff handles PUT /api/v1/notes/:id/diff. Diff application is not
// supported yet; owned notes get 501.
//
// @Summary      Apply a compressed diff to a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id    path      int                   true  "Note ID"
// @Param        body  body      writeNoteDiffRequest  true  "Compressed diff"
// @Failure      400   {object}  errorsResponse
// @Failure      401   {object}  errorsResponse
// @Failure      404   {object}  errorsResponse
// @Failure      501   {object}  errorsResponse
// @Router       /api/v1/notes/{id}/diff [put]
func (h *NoteHandler) WriteDiff(c echo.Context) error {
	user, id, err := h.target(c)
	if err != nil {
		return err
	}

	var req writeNoteDiffRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	note, err := h.service.ApplyNoteDiff(c.Request().Context(), id, user.ID, *req.CompressedDiff)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(note))
}

// target resolves the caller and the :id path parameter. An id that is not
// a positive integer cannot name a note, so it is reported as not found.
func (h *NoteHandler) target(c echo.Context) (*domain.User, int64, error) {
	user, err := ctxUser(c)
	if err != nil {
		return nil, 0, err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, 0, domain.ErrNoteNotFound
	}
	return user, id, nil
}
