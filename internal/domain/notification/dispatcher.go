package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/metrics"
)

const defaultSendTimeout = 10 * time.Second

// Sink delivers an event to one channel: mail, live feed, broker.
type Sink interface {
	Name() string
	Send(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to every sink in the background. A failing sink
// is logged and counted, never retried.
type Dispatcher struct {
	sinks   []Sink
	log     *logger.Logger
	metrics *metrics.Metrics
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *logger.Logger, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		log:     log,
		metrics: m,
		timeout: defaultSendTimeout,
	}
}

// WithTimeout caps each sink delivery.
func (d *Dispatcher) WithTimeout(timeout time.Duration) *Dispatcher {
	if timeout > 0 {
		d.timeout = timeout
	}
	return d
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("dispatcher closed, event dropped", "type", string(ev.Type), "booking_code", ev.BookingCode)
		return
	}

	for _, sink := range d.sinks {
		d.wg.Add(1)
		go d.deliver(sink, ev)
	}
}

func (d *Dispatcher) deliver(sink Sink, ev Event) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := safeSend(ctx, sink, ev)
	d.metrics.ObserveNotification(sink.Name(), string(ev.Type), err)
	if err != nil {
		d.log.Error(err, "notification failed",
			"sink", sink.Name(),
			"type", string(ev.Type),
			"booking_code", ev.BookingCode,
		)
		return
	}
	d.log.Debug("notification sent", "sink", sink.Name(), "type", string(ev.Type), "booking_code", ev.BookingCode)
}

func safeSend(ctx context.Context, sink Sink, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink %s panicked: %v", sink.Name(), r)
		}
	}()
	return sink.Send(ctx, ev)
}

// Wait blocks until every in-flight delivery has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Close stops accepting events and drains in-flight deliveries until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
