package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/geonotes/notes-api/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.NoteEvent
	done   chan struct{}
	want   int
}

func (s *recordingService) Process(_ context.Context, ev domain.NoteEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func TestDispatcher_PreservesPerNoteOrder(t *testing.T) {
	svc := &recordingService{done: make(chan struct{}), want: 3}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for _, a := range []domain.NoteAction{domain.NoteCreated, domain.NoteUpdated, domain.NoteDeleted} {
		d.Record(domain.NoteEvent{NoteID: "n1", Action: a})
	}

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for events")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	want := []domain.NoteAction{domain.NoteCreated, domain.NoteUpdated, domain.NoteDeleted}
	for i, ev := range svc.events {
		if ev.Action != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], ev.Action)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, nil, zerolog.Nop())
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("note-%d", i)
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("shard index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard index for %s not stable", id)
		}
	}
}

func TestDispatcher_RecordDropsWhenFull(t *testing.T) {
	// Workers are never started, so the buffer fills up.
	d := NewDispatcher(1, nil, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Record(domain.NoteEvent{NoteID: "n1", Action: domain.NoteCreated})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected %d buffered events, got %d", channelBuffer, got)
	}
}
