// internal/app/system/workers/notifydispatch.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/ideahub/internal/app/system/notify"
	"go.uber.org/zap"
)

// NotifyDispatcher delivers notifications on a background goroutine so the
// request that produced them never waits on, or fails because of, delivery.
type NotifyDispatcher struct {
	notifier notify.Notifier
	log      *zap.Logger
	timeout  time.Duration

	mu     sync.Mutex
	closed bool
	queue  chan notify.Event
	wg     sync.WaitGroup
}

// NewNotifyDispatcher creates a dispatcher with a queue of the given size.
// Each delivery gets its own timeout.
func NewNotifyDispatcher(n notify.Notifier, logger *zap.Logger, queueSize int, timeout time.Duration) *NotifyDispatcher {
	if queueSize < 1 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotifyDispatcher{
		notifier: n,
		log:      logger,
		timeout:  timeout,
		queue:    make(chan notify.Event, queueSize),
	}
}

// Start begins the delivery loop.
func (d *NotifyDispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("notification dispatcher started", zap.Int("queue_size", cap(d.queue)))
}

// Dispatch enqueues e. It never blocks: when the queue is full or the
// dispatcher is stopped the event is dropped and logged.
func (d *NotifyDispatcher) Dispatch(e notify.Event) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("notification dropped: dispatcher stopped", zap.String("type", e.Type), zap.String("user_id", e.UserID))
		return
	}
	select {
	case d.queue <- e:
	default:
		d.log.Warn("notification dropped: queue full", zap.String("type", e.Type), zap.String("user_id", e.UserID))
	}
}

// Stop closes the queue and waits for queued events to be delivered, or for
// ctx to end, whichever comes first.
func (d *NotifyDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.log.Info("notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.log.Warn("notification dispatcher stop timed out", zap.Int("pending", len(d.queue)))
		return ctx.Err()
	}
}

func (d *NotifyDispatcher) run() {
	defer d.wg.Done()
	for e := range d.queue {
		d.deliver(e)
	}
}

func (d *NotifyDispatcher) deliver(e notify.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, e); err != nil {
		d.log.Error("notification delivery failed",
			zap.Error(err),
			zap.String("type", e.Type),
			zap.String("user_id", e.UserID))
		return
	}
	d.log.Debug("notification delivered", zap.String("type", e.Type), zap.String("user_id", e.UserID))
}
