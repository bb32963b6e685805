package handler

import (
	"time"

	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

type createNoteRequest struct {
	Name *string `json:"name"`
}

type renameNoteRequest struct {
	Name *string `json:"name"`
}

type writeNoteRequest struct {
	Text *string `json:"text" validate:"required"`
}

type writeNoteDiffRequest struct {
	CompressedDiff *string `json:"compressed_diff" validate:"required"`
}

type noteResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// noteListItem omits text unless the listing asked for it.
type noteListItem struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Text *string `json:"text,omitempty"`
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Name:      n.Name,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNoteList(items []ports.NoteListItem) []noteListItem {
	out := make([]noteListItem, len(items))
	for i, it := range items {
		out[i] = noteListItem{ID: it.ID, Name: it.Name, Text: it.Text}
	}
	return out
}
