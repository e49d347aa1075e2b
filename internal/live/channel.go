// Package live maintains the long-lived per-show subscription that feeds
// seat-change events to the inventory merge loop.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cinemabook/booking-client/internal/domain"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultQueueSize      = 64
)

// Topic names the broadcast channel for one show.
func Topic(showID int) string {
	return fmt.Sprintf("seats/%d", showID)
}

// Channel opens live subscriptions. One Channel serves any number of shows;
// each Open returns an independent handle.
type Channel struct {
	subscriber     Subscriber
	logger         *slog.Logger
	reconnectDelay time.Duration
	queueSize      int
}

type Option func(*Channel)

// WithReconnectDelay overrides the fixed delay between reconnect attempts.
func WithReconnectDelay(d time.Duration) Option {
	return func(c *Channel) { c.reconnectDelay = d }
}

// WithQueueSize overrides the event queue bound.
func WithQueueSize(n int) Option {
	return func(c *Channel) { c.queueSize = n }
}

func NewChannel(subscriber Subscriber, logger *slog.Logger, opts ...Option) *Channel {
	c := &Channel{
		subscriber:     subscriber,
		logger:         logger,
		reconnectDelay: defaultReconnectDelay,
		queueSize:      defaultQueueSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Handle is one open subscription. Events delivers parsed seat-change
// events in receipt order; it is closed after Close, or never before.
type Handle struct {
	events    chan domain.LiveEvent
	reconnect chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// Events is the bounded queue feeding the consumer's merge loop. Events are
// delivered strictly in the order received from the transport.
func (h *Handle) Events() <-chan domain.LiveEvent {
	return h.events
}

// Reconnects signals each re-established subscription after an outage.
// Missed broadcasts are not replayed, so a consumer that cannot tolerate
// staleness re-fetches a snapshot on this signal.
func (h *Handle) Reconnects() <-chan struct{} {
	return h.reconnect
}

// Close tears the subscription down. It is idempotent: closing an
// already-closed handle is a no-op and the transport is disconnected exactly
// once, with no reconnect timer left running.
func (h *Handle) Close() {
	h.closeOnce.Do(h.cancel)
	<-h.done
}

// Open subscribes to the show's topic and starts the receive loop. The
// returned handle must be closed by the owner of the booking view however
// the view is exited.
func (c *Channel) Open(showID int) *Handle {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Handle{
		events:    make(chan domain.LiveEvent, c.queueSize),
		reconnect: make(chan struct{}, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go c.run(ctx, Topic(showID), h)

	return h
}

func (c *Channel) run(ctx context.Context, topic string, h *Handle) {
	defer close(h.done)
	defer close(h.events)

	connected := false

	for {
		sub, err := c.subscriber.Subscribe(ctx, topic)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("live subscription failed, retrying", "topic", topic, "error", err)
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		if connected {
			// Re-established after an outage; nothing sent during the gap
			// is replayed, so nudge the consumer to re-sync.
			select {
			case h.reconnect <- struct{}{}:
			default:
			}
		}
		connected = true

		c.consume(ctx, topic, sub, h)
		_ = sub.Close()

		if ctx.Err() != nil {
			return
		}

		c.logger.Warn("live subscription lost, reconnecting", "topic", topic)
		if !c.sleep(ctx) {
			return
		}
	}
}

// consume receives until the transport errors or the context is cancelled.
// Malformed payloads are dropped and logged; they never end the
// subscription.
func (c *Channel) consume(ctx context.Context, topic string, sub Subscription, h *Handle) {
	for {
		payload, err := sub.ReceiveMessage(ctx)
		if err != nil {
			return
		}

		ev, err := domain.ParseLiveEvent(payload)
		if err != nil {
			c.logger.Warn("dropping live payload", "topic", topic, "error", err)
			continue
		}

		select {
		case h.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// sleep waits out the fixed reconnect delay, returning false when the
// handle was closed meanwhile. The timer is stopped either way.
func (c *Channel) sleep(ctx context.Context) bool {
	timer := time.NewTimer(c.reconnectDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
