// Package queue moves non-critical writes off the request path. The vault
// uses it to stamp accounts with their last successful login time without
// making login latency depend on that write.
package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/campneus/cofre/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AccessDispatcher routes access events to a fixed set of workers using
// consistent hashing on the user ID, so events for the same account are
// applied in order.
type AccessDispatcher struct {
	workers []chan ports.AccessEvent
	users   ports.UserRepository
	log     zerolog.Logger
}

// NewAccessDispatcher creates an AccessDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAccessDispatcher(numWorkers int, users ports.UserRepository, log zerolog.Logger) *AccessDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AccessDispatcher{
		workers: make([]chan ports.AccessEvent, numWorkers),
		users:   users,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AccessEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AccessDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// RecordAccess hands an event to the worker responsible for its user ID.
// When the worker's buffer is full the event is dropped rather than blocking
// a login; a stale last-access stamp is not worth queueing callers on.
func (d *AccessDispatcher) RecordAccess(event ports.AccessEvent) {
	select {
	case d.workers[d.shardIndex(event.UserID)] <- event:
	default:
		d.log.Warn().Str("user_id", event.UserID).Msg("access event dropped, worker buffer full")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *AccessDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AccessDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AccessEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.users.TouchLastAccess(ctx, event.UserID, event.At); err != nil {
				d.log.Error().Err(err).
					Str("user_id", event.UserID).
					Int("worker_id", id).
					Msg("last access update failed")
			}
		}
	}
}
