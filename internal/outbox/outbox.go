// Package outbox runs side effects that must happen after a write has been
// committed: notification emails and live-update broadcasts. Effects are
// best effort. A failing or panicking effect is logged and never reaches the
// request that produced it.
package outbox

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Effect is one post-commit action. Effects sharing a Lane run in publish
// order; different lanes run independently.
type Effect struct {
	Name string
	Lane string
	Run  func(ctx context.Context) error
}

type Outbox struct {
	mu     sync.RWMutex
	queues []chan Effect
	closed bool
	inline bool
	wg     sync.WaitGroup
}

// New creates an outbox with the given number of workers, each with its own
// buffered queue of queueSize effects. Call Start before publishing.
func New(workers, queueSize int) *Outbox {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	queues := make([]chan Effect, workers)
	for i := range queues {
		queues[i] = make(chan Effect, queueSize)
	}
	return &Outbox{queues: queues}
}

// NewInline creates an outbox that runs effects on the publishing goroutine.
func NewInline() *Outbox {
	return &Outbox{inline: true}
}

// Start launches the workers. They exit when ctx is cancelled or Close drains the queues.
func (o *Outbox) Start(ctx context.Context) {
	if o.inline {
		return
	}
	for i, q := range o.queues {
		o.wg.Add(1)
		go o.work(ctx, i, q)
	}
}

func (o *Outbox) work(ctx context.Context, id int, queue <-chan Effect) {
	defer o.wg.Done()
	logger := log.WithField("outbox_worker", id)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("outbox worker stopped")
			return
		case effect, ok := <-queue:
			if !ok {
				return
			}
			run(ctx, effect)
		}
	}
}

// Publish hands effects to the workers. It never blocks: when a lane's queue is
// full the effect is dropped with a warning.
func (o *Outbox) Publish(effects ...Effect) {
	if o.inline {
		for _, effect := range effects {
			run(context.Background(), effect)
		}
		return
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		for _, effect := range effects {
			log.WithField("effect", effect.Name).Warn("outbox closed, effect dropped")
		}
		return
	}
	for _, effect := range effects {
		select {
		case o.queues[o.laneIndex(effect)] <- effect:
		default:
			log.WithField("effect", effect.Name).Warn("outbox queue full, effect dropped")
		}
	}
}

// Close stops accepting effects and waits until queued ones have run.
func (o *Outbox) Close() {
	if o.inline {
		return
	}
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	for _, q := range o.queues {
		close(q)
	}
	o.mu.Unlock()
	o.wg.Wait()
}

func (o *Outbox) laneIndex(effect Effect) int {
	lane := effect.Lane
	if lane == "" {
		lane = effect.Name
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(lane))
	return int(h.Sum32() % uint32(len(o.queues)))
}

func run(ctx context.Context, effect Effect) {
	logger := log.WithField("effect", effect.Name)
	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprint(r)).Error("outbox effect panicked")
		}
	}()
	if effect.Run == nil {
		return
	}
	if err := effect.Run(ctx); err != nil {
		logger.WithError(err).Error("outbox effect failed")
		return
	}
	logger.Debug("outbox effect done")
}
