package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/domain/models"
)

type recordingSink struct {
	mu       sync.Mutex
	inserted []models.Notification
	err      error
}

func (s *recordingSink) Insert(ctx context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, n)
	return nil
}

func (s *recordingSink) all() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.inserted...)
}

func note(id, userID string) models.Notification {
	return models.Notification{ID: id, UserID: userID, Kind: models.NotifyMemberJoined}
}

func TestDispatchDelivers(t *testing.T) {
	sink := &recordingSink{}
	d := New(sink, zap.NewNop(), 8)
	d.Start()

	d.Dispatch(note("n1", "alice"))
	d.Dispatch(note("n2", "bob"))
	d.Stop()

	got := sink.all()
	if len(got) != 2 {
		t.Fatalf("delivered %d notifications, want 2", len(got))
	}
}

func TestStopDrainsQueue(t *testing.T) {
	sink := &recordingSink{}
	d := New(sink, zap.NewNop(), 32)

	// Enqueue before the worker runs, then start and stop immediately.
	// Everything queued before Stop must still be delivered.
	for i := 0; i < 10; i++ {
		d.Dispatch(note("n", "alice"))
	}
	d.Start()
	d.Stop()

	if got := len(sink.all()); got != 10 {
		t.Fatalf("delivered %d notifications, want 10", got)
	}
}

func TestDispatchAfterStopDropsWithoutPanic(t *testing.T) {
	sink := &recordingSink{}
	d := New(sink, zap.NewNop(), 8)
	d.Start()
	d.Stop()

	d.Dispatch(note("late", "alice"))

	if got := len(sink.all()); got != 0 {
		t.Fatalf("late dispatch delivered %d notifications, want 0", got)
	}
}

func TestSinkFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("backend down")}
	d := New(sink, zap.NewNop(), 8)
	d.Start()

	d.Dispatch(note("n1", "alice"))
	d.Stop()

	// The failure is logged inside the worker; the caller never sees it
	// and the dispatcher keeps running. Reaching Stop without a deadlock
	// or panic is the assertion.
	if got := len(sink.all()); got != 0 {
		t.Fatalf("failed sink recorded %d inserts, want 0", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := New(&recordingSink{}, zap.NewNop(), 8)
	d.Start()
	d.Stop()
	d.Stop()
}

func TestQueueFullDrops(t *testing.T) {
	sink := &recordingSink{}
	d := New(sink, zap.NewNop(), 1)

	// Worker not started, so the buffer fills and the rest drop.
	d.Dispatch(note("n1", "alice"))
	d.Dispatch(note("n2", "alice"))
	d.Dispatch(note("n3", "alice"))

	d.Start()
	d.Stop()

	if got := len(sink.all()); got != 1 {
		t.Fatalf("delivered %d notifications, want 1 (buffer depth)", got)
	}
}
