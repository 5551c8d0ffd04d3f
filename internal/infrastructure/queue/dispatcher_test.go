package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/ports"
)

type touchRecorder struct {
	mu      sync.Mutex
	touches map[string][]time.Time
}

func newTouchRecorder() *touchRecorder {
	return &touchRecorder{touches: make(map[string][]time.Time)}
}

func (r *touchRecorder) TouchLastAccess(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touches[id] = append(r.touches[id], at)
	return nil
}

func (r *touchRecorder) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.touches[id])
}

func (r *touchRecorder) Create(context.Context, *domain.User) (*domain.User, error) {
	return nil, nil
}
func (r *touchRecorder) Update(context.Context, *domain.User) (*domain.User, error) {
	return nil, nil
}
func (r *touchRecorder) Delete(context.Context, string) error { return nil }
func (r *touchRecorder) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *touchRecorder) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *touchRecorder) List(context.Context) ([]domain.User, error) { return nil, nil }
func (r *touchRecorder) CountActive(context.Context) (int64, error)  { return 0, nil }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAccessDispatcher_RecordsAccess(t *testing.T) {
	repo := newTouchRecorder()
	d := NewAccessDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	now := time.Now().UTC()
	d.RecordAccess(ports.AccessEvent{UserID: "user-1", At: now})
	d.RecordAccess(ports.AccessEvent{UserID: "user-2", At: now})

	waitFor(t, func() bool { return repo.count("user-1") == 1 && repo.count("user-2") == 1 })
}

func TestAccessDispatcher_SameUserSameWorker(t *testing.T) {
	d := NewAccessDispatcher(4, newTouchRecorder(), zerolog.Nop())

	first := d.shardIndex("user-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("user-42"); got != first {
			t.Fatalf("shard index not stable: %d vs %d", got, first)
		}
	}
}

func TestAccessDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewAccessDispatcher(0, newTouchRecorder(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
