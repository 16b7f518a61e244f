// internal/app/notify/dispatcher.go
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/homesync/homesync/internal/domain/models"
)

// Sink persists a notification record. Satisfied by the notifications
// store; push delivery gateways can be layered behind the same interface.
type Sink interface {
	Insert(ctx context.Context, n models.Notification) error
}

// DefaultBuffer is the queue depth before Dispatch starts dropping.
const DefaultBuffer = 256

// writeTimeout bounds each sink write so a slow backend cannot wedge the
// worker.
const writeTimeout = 10 * time.Second

// Dispatcher is the asynchronous boundary between membership mutations
// and notification delivery. Dispatch never blocks the caller beyond a
// channel send and never reports failure back; a failed or dropped
// notification is logged and forgotten, by contract.
type Dispatcher struct {
	sink   Sink
	log    *zap.Logger
	ch     chan models.Notification
	wg     sync.WaitGroup
	closed chan struct{}
	once   sync.Once
}

// New creates a dispatcher with the given queue depth (0 means
// DefaultBuffer). Call Start before use and Stop on shutdown.
func New(sink Sink, logger *zap.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Dispatcher{
		sink:   sink,
		log:    logger,
		ch:     make(chan models.Notification, buffer),
		closed: make(chan struct{}),
	}
}

// Start begins the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("notification dispatcher started", zap.Int("buffer", cap(d.ch)))
}

// Stop drains the queue and waits for the worker to finish. The channel
// itself is never closed, so a straggling Dispatch cannot panic; it just
// drops.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.closed) })
	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

// Dispatch enqueues one notification. If the dispatcher is stopped or
// the queue is full, the notification is dropped with a warning.
func (d *Dispatcher) Dispatch(n models.Notification) {
	select {
	case <-d.closed:
		d.log.Warn("notification dropped, dispatcher stopped",
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)))
		return
	default:
	}

	select {
	case d.ch <- n:
	default:
		d.log.Warn("notification dropped, queue full",
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case n := <-d.ch:
			d.deliver(n)
		case <-d.closed:
			// Drain whatever was enqueued before shutdown.
			for {
				select {
				case n := <-d.ch:
					d.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(n models.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := d.sink.Insert(ctx, n); err != nil {
		d.log.Error("failed to store notification",
			zap.String("notification_id", n.ID),
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}
