package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

type stubUserService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	getUserFn  func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

type stubNoteService struct {
	listMineFn func(ctx context.Context, caller domain.Identity) ([]*domain.Note, error)
	listAllFn  func(ctx context.Context) ([]*domain.Note, error)
	createFn   func(ctx context.Context, caller domain.Identity, in ports.CreateNoteInput) (*domain.Note, error)
	updateFn   func(ctx context.Context, caller domain.Identity, id string, u domain.NoteUpdate) (*domain.Note, error)
	deleteFn   func(ctx context.Context, caller domain.Identity, id string) (*domain.Note, error)
}

func (s *stubNoteService) ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Note, error) {
	return s.listMineFn(ctx, caller)
}

func (s *stubNoteService) ListAll(ctx context.Context) ([]*domain.Note, error) {
	return s.listAllFn(ctx)
}

func (s *stubNoteService) Create(ctx context.Context, caller domain.Identity, in ports.CreateNoteInput) (*domain.Note, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubNoteService) Update(ctx context.Context, caller domain.Identity, id string, u domain.NoteUpdate) (*domain.Note, error) {
	return s.updateFn(ctx, caller, id, u)
}

func (s *stubNoteService) Delete(ctx context.Context, caller domain.Identity, id string) (*domain.Note, error) {
	return s.deleteFn(ctx, caller, id)
}

// newContext builds an echo context with the validator installed and,
// when identity is non-nil, the caller attached as Authenticate would.
func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if identity != nil {
		req = req.WithContext(domain.ContextWithIdentity(req.Context(), *identity))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectError(t *testing.T, err error, kind domain.Kind, msg string) {
	t.Helper()
	de, ok := domain.AsError(err)
	if !ok {
		t.Fatalf("expected *domain.Error, got %v", err)
	}
	if de.Kind != kind || de.Message != msg {
		t.Fatalf("expected %s %q, got %s %q", kind, msg, de.Kind, de.Message)
	}
}
