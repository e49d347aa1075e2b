package live_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/cinemabook/booking-client/internal/live"
	"github.com/cinemabook/booking-client/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second

func newTestChannel(sub live.Subscriber) *live.Channel {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return live.NewChannel(sub, logger, live.WithReconnectDelay(time.Millisecond))
}

func receiveEvent(t *testing.T, h *live.Handle) domain.LiveEvent {
	t.Helper()

	select {
	case ev, ok := <-h.Events():
		require.True(t, ok, "events channel closed unexpectedly")
		return ev
	case <-time.After(waitFor):
		t.Fatal("timed out waiting for live event")
		return domain.LiveEvent{}
	}
}

func TestHandle_DeliversEventsInOrderAndDropsMalformed(t *testing.T) {
	sub := mocks.NewMockSubscription([][]byte{
		[]byte(`{"type":"SEAT_BOOKED","seats":["A1"]}`),
		[]byte(`{not json`),
		[]byte(`{"type":"SEAT_EXPLODED","seats":["A2"]}`),
		[]byte(`{"type":"SEAT_RELEASED","seats":["A3","A4"]}`),
	}, nil)

	subscriber := &mocks.MockSubscriber{}
	subscriber.Enqueue(sub)

	h := newTestChannel(subscriber).Open(7)
	defer h.Close()

	first := receiveEvent(t, h)
	assert.Equal(t, domain.EventSeatBooked, first.Type)
	assert.Equal(t, []string{"A1"}, first.Seats)

	second := receiveEvent(t, h)
	assert.Equal(t, domain.EventSeatReleased, second.Type)
	assert.Equal(t, []string{"A3", "A4"}, second.Seats)
}

func TestHandle_CloseIsIdempotent(t *testing.T) {
	sub := mocks.NewMockSubscription(nil, nil)
	subscriber := &mocks.MockSubscriber{}
	subscriber.Enqueue(sub)

	h := newTestChannel(subscriber).Open(7)

	h.Close()
	h.Close()

	assert.Equal(t, int32(1), sub.CloseCount.Load(), "transport must disconnect exactly once")

	_, ok := <-h.Events()
	assert.False(t, ok, "events channel must be closed after teardown")
}

func TestHandle_ReconnectsAfterTransportLoss(t *testing.T) {
	first := mocks.NewMockSubscription([][]byte{
		[]byte(`{"type":"SEAT_BOOKED","seats":["A1"]}`),
	}, errors.New("connection reset"))
	second := mocks.NewMockSubscription([][]byte{
		[]byte(`{"type":"SEAT_BOOKED","seats":["B1"]}`),
	}, nil)

	subscriber := &mocks.MockSubscriber{}
	subscriber.Enqueue(first, second)

	h := newTestChannel(subscriber).Open(7)
	defer h.Close()

	assert.Equal(t, []string{"A1"}, receiveEvent(t, h).Seats)
	assert.Equal(t, []string{"B1"}, receiveEvent(t, h).Seats)

	select {
	case <-h.Reconnects():
	case <-time.After(waitFor):
		t.Fatal("expected a reconnect signal after the outage")
	}

	assert.Equal(t, int32(2), subscriber.SubscribeCount.Load())
}

func TestHandle_CloseDuringReconnectBackoff(t *testing.T) {
	subscriber := &mocks.MockSubscriber{SubscribeErr: errors.New("broker down")}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	channel := live.NewChannel(subscriber, logger, live.WithReconnectDelay(time.Hour))

	h := channel.Open(7)

	closed := make(chan struct{})
	go func() {
		h.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(waitFor):
		t.Fatal("Close must not wait out the reconnect delay")
	}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "seats/42", live.Topic(42))
}
