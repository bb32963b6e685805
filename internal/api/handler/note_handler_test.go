package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-api/internal/core/domain"
	"github.com/99minutos/notes-api/internal/core/ports"
)

type stubNoteService struct {
	createFn func(ctx context.Context, userID int64, name *string) (*domain.Note, error)
	listFn   func(ctx context.Context, userID int64, withText bool) ([]ports.NoteListItem, error)
	getFn    func(ctx context.Context, id, userID int64) (*domain.Note, error)
	renameFn func(ctx context.Context, id, userID int64, name *string) (*domain.Note, error)
	writeFn  func(ctx context.Context, id, userID int64, text string) (*domain.Note, error)
	diffFn   func(ctx context.Context, id, userID int64, diff string) (*domain.Note, error)
}

func (s *stubNoteService) CreateNote(ctx context.Context, userID int64, name *string) (*domain.Note, error) {
	return s.createFn(ctx, userID, name)
}

func (s *stubNoteService) ListNotes(ctx context.Context, userID int64, withText bool) ([]ports.NoteListItem, error) {
	return s.listFn(ctx, userID, withText)
}

func (s *stubNoteService) GetNote(ctx context.Context, id, userID int64) (*domain.Note, error) {
	return s.getFn(ctx, id, userID)
}

func (s *stubNoteService) RenameNote(ctx context.Context, id, userID int64, name *string) (*domain.Note, error) {
	return s.renameFn(ctx, id, userID, name)
}

func (s *stubNoteService) WriteNoteText(ctx context.Context, id, userID int64, text string) (*domain.Note, error) {
	return s.writeFn(ctx, id, userID, text)
}

func (s *stubNoteService) ApplyNoteDiff(ctx context.Context, id, userID int64, diff string) (*domain.Note, error) {
	return s.diffFn(ctx, id, userID, diff)
}

var testUser = &domain.User{ID: 7, Name: "U", Email: "u@x.com"}

func noteContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, id string) echo.Context {
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	SetUser(c, testUser)
	return c
}

func TestNoteHandler_List(t *testing.T) {
	e := newTestEcho()
	var gotWithText bool
	text := "body"
	stub := &stubNoteService{
		listFn: func(_ context.Context, userID int64, withText bool) ([]ports.NoteListItem, error) {
			if userID != testUser.ID {
				t.Fatalf("unexpected user %d", userID)
			}
			gotWithText = withText
			if withText {
				return []ports.NoteListItem{{ID: 1, Name: "a", Text: &text}}, nil
			}
			return []ports.NoteListItem{{ID: 1, Name: "a"}}, nil
		},
	}
	h := NewNoteHandler(stub)

	rec := httptest.NewRecorder()
	c := noteContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil), rec, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotWithText {
		t.Fatal("with_content defaults to false")
	}
	var items []map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &items)
	if _, ok := items[0]["text"]; ok {
		t.Fatalf("text present without with_content: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c = noteContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/notes?with_content=true", nil), rec, "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	items = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &items)
	if !gotWithText || items[0]["text"] != "body" {
		t.Fatalf("expected text, got %s", rec.Body.String())
	}
}

func TestNoteHandler_Create_EmptyBody(t *testing.T) {
	e := newTestEcho()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubNoteService{
		createFn: func(_ context.Context, userID int64, name *string) (*domain.Note, error) {
			if name != nil {
				t.Fatalf("expected nil name, got %q", *name)
			}
			return &domain.Note{ID: 3, UserID: userID, Name: domain.DefaultNoteName, Text: domain.DefaultNoteText, CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	h := NewNoteHandler(stub)

	rec := httptest.NewRecorder()
	c := noteContext(e, httptest.NewRequest(http.MethodPost, "/api/v1/notes", nil), rec, "")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp noteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 3 || resp.Name != domain.DefaultNoteName {
		t.Fatalf("unexpected note: %+v", resp)
	}
}

func TestNoteHandler_Get_NonNumericIDIsNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewNoteHandler(&stubNoteService{
		getFn: func(context.Context, int64, int64) (*domain.Note, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	})

	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		c := noteContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/notes/"+id, nil), httptest.NewRecorder(), id)
		if err := h.Get(c); !errors.Is(err, domain.ErrNoteNotFound) {
			t.Fatalf("id %q: expected ErrNoteNotFound, got %v", id, err)
		}
	}
}

func TestNoteHandler_Get_PassesOwner(t *testing.T) {
	e := newTestEcho()
	h := NewNoteHandler(&stubNoteService{
		getFn: func(_ context.Context, id, userID int64) (*domain.Note, error) {
			if id != 12 || userID != testUser.ID {
				t.Fatalf("unexpected args: %d %d", id, userID)
			}
			return nil, domain.ErrNoteNotFound
		},
	})

	c := noteContext(e, httptest.NewRequest(http.MethodGet, "/api/v1/notes/12", nil), httptest.NewRecorder(), "12")
	if err := h.Get(c); !errors.Is(err, domain.ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNoteHandler_Rename_OptionalName(t *testing.T) {
	e := newTestEcho()
	var got *string
	h := NewNoteHandler(&stubNoteService{
		renameFn: func(_ context.Context, id, _ int64, name *string) (*domain.Note, error) {
			got = name
			return &domain.Note{ID: id, Name: domain.NoteName(name)}, nil
		},
	})

	c := noteContext(e, jsonRequest(http.MethodPatch, "/api/v1/notes/1", `{}`), httptest.NewRecorder(), "1")
	if err := h.Rename(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil name, got %q", *got)
	}

	c = noteContext(e, jsonRequest(http.MethodPatch, "/api/v1/notes/1", `{"name":"New"}`), httptest.NewRecorder(), "1")
	if err := h.Rename(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || *got != "New" {
		t.Fatalf("expected name New, got %v", got)
	}
}

func TestNoteHandler_WriteText(t *testing.T) {
	e := newTestEcho()
	var got string
	h := NewNoteHandler(&stubNoteService{
		writeFn: func(_ context.Context, id, _ int64, text string) (*domain.Note, error) {
			got = text
			return &domain.Note{ID: id, Text: text}, nil
		},
	})

	c := noteContext(e, jsonRequest(http.MethodPut, "/api/v1/notes/1", `{"text":""}`), httptest.NewRecorder(), "1")
	if err := h.WriteText(c); err != nil {
		t.Fatalf("empty text should be accepted: %v", err)
	}
	if got != "" {
		t.Fatalf("text = %q", got)
	}

	c = noteContext(e, jsonRequest(http.MethodPut, "/api/v1/notes/1", `{}`), httptest.NewRecorder(), "1")
	var fe FieldErrors
	if err := h.WriteText(c); !errors.As(err, &fe) || fe["text"] == "" {
		t.Fatalf("expected field error on text, got %v", err)
	}
}

func TestNoteHandler_WriteDiff(t *testing.T) {
	e := newTestEcho()
	h := NewNoteHandler(&stubNoteService{
		diffFn: func(context.Context, int64, int64, string) (*domain.Note, error) {
			return nil, domain.ErrNotImplemented
		},
	})

	c := noteContext(e, jsonRequest(http.MethodPut, "/api/v1/notes/1/diff", `{"compressed_diff":"abc"}`), httptest.NewRecorder(), "1")
	if err := h.WriteDiff(c); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}

	c = noteContext(e, jsonRequest(http.MethodPut, "/api/v1/notes/1/diff", `{}`), httptest.NewRecorder(), "1")
	var fe FieldErrors
	if err := h.WriteDiff(c); !errors.As(err, &fe) || fe["compressed_diff"] == "" {
		t.Fatalf("expected field error on compressed_diff, got %v", err)
	}
}
