package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/core/domain"
	"github.com/geonotes/notes-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubNoteRepo struct {
	byID      map[string]*domain.Note
	seq       int
	createErr error
	findErr   error // returned by FindByID when set
	storeErr  error // returned by every other call when set
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{byID: make(map[string]*domain.Note)}
}

func cloneNote(n *domain.Note) *domain.Note {
	clone := *n
	return &clone
}

func (r *stubNoteRepo) FindByAuthor(_ context.Context, authorID string) ([]*domain.Note, error) {
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	var out []*domain.Note
	for _, n := range r.byID {
		if n.AuthorID == authorID {
			out = append(out, cloneNote(n))
		}
	}
	return out, nil
}

func (r *stubNoteRepo) FindAll(_ context.Context) ([]*domain.Note, error) {
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	out := make([]*domain.Note, 0, len(r.byID))
	for _, n := range r.byID {
		out = append(out, cloneNote(n))
	}
	return out, nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	n, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) Create(_ context.Context, n *domain.Note) (*domain.Note, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	stored := cloneNote(n)
	stored.ID = fmt.Sprintf("n%d", r.seq)
	r.byID[stored.ID] = stored
	return cloneNote(stored), nil
}

// scoped mirrors the real Mongo filter: a foreign note reads as missing.
func (r *stubNoteRepo) scoped(id, authorID string) (*domain.Note, error) {
	if r.storeErr != nil {
		return nil, r.storeErr
	}
	n, ok := r.byID[id]
	if !ok || (authorID != "" && n.AuthorID != authorID) {
		return nil, domain.ErrRecordNotFound
	}
	return n, nil
}

func (r *stubNoteRepo) Update(_ context.Context, id, authorID string, u domain.NoteUpdate) (*domain.Note, error) {
	n, err := r.scoped(id, authorID)
	if err != nil {
		return nil, err
	}
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Latitude != nil {
		n.Latitude = *u.Latitude
	}
	if u.Longitude != nil {
		n.Longitude = *u.Longitude
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) Delete(_ context.Context, id, authorID string) (*domain.Note, error) {
	n, err := r.scoped(id, authorID)
	if err != nil {
		return nil, err
	}
	delete(r.byID, id)
	return cloneNote(n), nil
}

type stubIdempotency struct {
	keys      map[string]string
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]string)}
}

func (s *stubIdempotency) Lookup(_ context.Context, authorID, key string) (string, bool, error) {
	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	id, ok := s.keys[authorID+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, authorID, key, noteID string) error {
	s.keys[authorID+":"+key] = noteID
	return nil
}

type stubRecorder struct {
	events []domain.NoteEvent
}

func (r *stubRecorder) Record(ev domain.NoteEvent) { r.events = append(r.events, ev) }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	alice = domain.Identity{ID: "alice", Role: domain.RoleUser}
	bob   = domain.Identity{ID: "bob", Role: domain.RoleUser}
	admin = domain.Identity{ID: "root", Role: domain.RoleAdmin}
)

func strPtr(s string) *string { return &s }

func seededNoteRepo() *stubNoteRepo {
	repo := newStubNoteRepo()
	repo.byID["n-alice"] = &domain.Note{ID: "n-alice", Title: "mine", AuthorID: "alice", CreatedAt: time.Now().UTC()}
	repo.byID["n-bob"] = &domain.Note{ID: "n-bob", Title: "his", AuthorID: "bob", CreatedAt: time.Now().UTC()}
	return repo
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestNoteService_ListMine_OnlyCallerNotes(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	notes, err := svc.ListMine(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != "n-alice" {
		t.Errorf("unexpected notes: %+v", notes)
	}
}

func TestNoteService_ListAll(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	notes, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Errorf("expected 2 notes, got %d", len(notes))
	}
}

func TestNoteService_List_StoreError(t *testing.T) {
	repo := seededNoteRepo()
	repo.storeErr = errors.New("db unavailable")
	svc := NewNoteService(repo, nil, nil, zerolog.Nop())

	_, err := svc.ListMine(context.Background(), alice)
	expectKind(t, err, domain.KindInternal, "Database error")

	_, err = svc.ListAll(context.Background())
	expectKind(t, err, domain.KindInternal, "Database error")
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestNoteService_Create_Success(t *testing.T) {
	repo := newStubNoteRepo()
	rec := &stubRecorder{}
	svc := NewNoteService(repo, nil, rec, zerolog.Nop())

	note, err := svc.Create(context.Background(), alice, ports.CreateNoteInput{
		Title: "t", Content: "c", Latitude: 1, Longitude: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.ID == "" || note.AuthorID != "alice" {
		t.Errorf("unexpected note: %+v", note)
	}
	if note.CreatedAt.IsZero() {
		t.Error("CreatedAt must not be zero")
	}
	if len(rec.events) != 1 || rec.events[0].Action != domain.NoteCreated || rec.events[0].NoteID != note.ID {
		t.Errorf("expected created audit event, got %+v", rec.events)
	}
}

func TestNoteService_Create_RepoError(t *testing.T) {
	repo := newStubNoteRepo()
	repo.createErr = errors.New("db unavailable")
	rec := &stubRecorder{}
	svc := NewNoteService(repo, nil, rec, zerolog.Nop())

	_, err := svc.Create(context.Background(), alice, ports.CreateNoteInput{Title: "t"})
	expectKind(t, err, domain.KindInternal, "Failed to save the note")
	if len(rec.events) != 0 {
		t.Error("expected no audit event on failure")
	}
}

func TestNoteService_Create_IdempotencyReplay(t *testing.T) {
	repo := newStubNoteRepo()
	svc := NewNoteService(repo, newStubIdempotency(), nil, zerolog.Nop())
	in := ports.CreateNoteInput{Title: "t", IdempotencyKey: "key-1"}

	first, err := svc.Create(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected replay of %s, got %s", first.ID, second.ID)
	}
	if len(repo.byID) != 1 {
		t.Errorf("expected exactly one stored note, got %d", len(repo.byID))
	}
}

func TestNoteService_Create_IdempotencyKeyIsPerAuthor(t *testing.T) {
	repo := newStubNoteRepo()
	svc := NewNoteService(repo, newStubIdempotency(), nil, zerolog.Nop())
	in := ports.CreateNoteInput{Title: "t", IdempotencyKey: "shared"}

	a, _ := svc.Create(context.Background(), alice, in)
	b, _ := svc.Create(context.Background(), bob, in)
	if a.ID == b.ID {
		t.Error("expected distinct notes for distinct authors")
	}
}

func TestNoteService_Create_IdempotencyLookupErrorCreatesAnyway(t *testing.T) {
	idem := newStubIdempotency()
	idem.lookupErr = errors.New("redis timeout")
	svc := NewNoteService(newStubNoteRepo(), idem, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), alice, ports.CreateNoteInput{Title: "t", IdempotencyKey: "k"}); err != nil {
		t.Fatalf("expected create to proceed, got %v", err)
	}
}

func TestNoteService_Create_ReplayOfDeletedNoteCreatesQuietly(t *testing.T) {
	var buf bytes.Buffer
	repo := newStubNoteRepo()
	idem := newStubIdempotency()
	svc := NewNoteService(repo, idem, nil, zerolog.New(&buf).Level(zerolog.WarnLevel))
	in := ports.CreateNoteInput{Title: "t", IdempotencyKey: "k"}

	first, _ := svc.Create(context.Background(), alice, in)
	delete(repo.byID, first.ID)

	second, err := svc.Create(context.Background(), alice, in)
	if err != nil {
		t.Fatalf("expected create to proceed, got %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh note once the replayed one is gone")
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing logged at warn or above, got %s", buf.String())
	}
}

func TestNoteService_Create_ReplayStoreErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	repo := newStubNoteRepo()
	idem := newStubIdempotency()
	idem.keys["alice:k"] = "n-old"
	repo.findErr = errors.New("socket closed")
	svc := NewNoteService(repo, idem, nil, zerolog.New(&buf))

	note, err := svc.Create(context.Background(), alice, ports.CreateNoteInput{Title: "t", IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("expected create to proceed, got %v", err)
	}
	if note.ID == "n-old" {
		t.Error("expected a new note, not a replay")
	}
	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte(`"level":"warn"`)) || !bytes.Contains(buf.Bytes(), []byte("socket closed")) {
		t.Errorf("expected store error logged at warn, got %s", out)
	}
}

// ---------------------------------------------------------------------------
// Update / Delete
// ---------------------------------------------------------------------------

func TestNoteService_Update_Own(t *testing.T) {
	rec := &stubRecorder{}
	svc := NewNoteService(seededNoteRepo(), nil, rec, zerolog.Nop())

	note, err := svc.Update(context.Background(), alice, "n-alice", domain.NoteUpdate{Title: strPtr("renamed")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.Title != "renamed" {
		t.Errorf("expected title updated, got %q", note.Title)
	}
	if len(rec.events) != 1 || rec.events[0].Action != domain.NoteUpdated {
		t.Errorf("expected updated audit event, got %+v", rec.events)
	}
}

func TestNoteService_Update_ForeignNoteIsNotFound(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), alice, "n-bob", domain.NoteUpdate{Title: strPtr("x")})
	expectKind(t, err, domain.KindNotFound, "Note not found")
}

func TestNoteService_Update_AdminAnyNote(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	if _, err := svc.Update(context.Background(), admin, "n-bob", domain.NoteUpdate{Title: strPtr("x")}); err != nil {
		t.Fatalf("expected admin update to succeed, got %v", err)
	}
}

func TestNoteService_Update_Missing(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), admin, "nope", domain.NoteUpdate{Title: strPtr("x")})
	expectKind(t, err, domain.KindNotFound, "Note not found")
}

func TestNoteService_Update_Empty(t *testing.T) {
	svc := NewNoteService(seededNoteRepo(), nil, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), alice, "n-alice", domain.NoteUpdate{})
	expectKind(t, err, domain.KindBadRequest, "No fields to update")
}

func TestNoteService_Update_StoreError(t *testing.T) {
	repo := seededNoteRepo()
	repo.storeErr = errors.New("write conflict")
	svc := NewNoteService(repo, nil, nil, zerolog.Nop())

	_, err := svc.Update(context.Background(), alice, "n-alice", domain.NoteUpdate{Title: strPtr("x")})
	expectKind(t, err, domain.KindInternal, "Database error")
}

func TestNoteService_Delete(t *testing.T) {
	repo := seededNoteRepo()
	rec := &stubRecorder{}
	svc := NewNoteService(repo, nil, rec, zerolog.Nop())

	_, err := svc.Delete(context.Background(), bob, "n-alice")
	expectKind(t, err, domain.KindNotFound, "Note not found")

	note, err := svc.Delete(context.Background(), alice, "n-alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.ID != "n-alice" {
		t.Errorf("expected deleted note returned, got %+v", note)
	}
	if _, ok := repo.byID["n-alice"]; ok {
		t.Error("expected note removed from store")
	}
	if len(rec.events) != 1 || rec.events[0].Action != domain.NoteDeleted || rec.events[0].ActorID != "alice" {
		t.Errorf("expected deleted audit event, got %+v", rec.events)
	}
}
