package mocks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cinemabook/booking-client/internal/live"
)

// MockSubscriber hands out scripted subscriptions in order, one per
// Subscribe call, and counts transport-level connects and disconnects.
type MockSubscriber struct {
	mu            sync.Mutex
	subscriptions []*MockSubscription
	SubscribeErr  error

	SubscribeCount atomic.Int32
}

func (m *MockSubscriber) Enqueue(subs ...*MockSubscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = append(m.subscriptions, subs...)
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string) (live.Subscription, error) {
	m.SubscribeCount.Add(1)

	if m.SubscribeErr != nil {
		return nil, m.SubscribeErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.subscriptions) == 0 {
		return nil, errors.New("no scripted subscription left")
	}

	sub := m.subscriptions[0]
	m.subscriptions = m.subscriptions[1:]
	return sub, nil
}

// MockSubscription replays scripted payloads, then blocks until closed or
// the context ends, finishing with Err (or the context error).
type MockSubscription struct {
	Payloads [][]byte
	Err      error

	next       int
	closed     chan struct{}
	closeOnce  sync.Once
	CloseCount atomic.Int32
}

func NewMockSubscription(payloads [][]byte, err error) *MockSubscription {
	return &MockSubscription{
		Payloads: payloads,
		Err:      err,
		closed:   make(chan struct{}),
	}
}

func (s *MockSubscription) ReceiveMessage(ctx context.Context) ([]byte, error) {
	if s.next < len(s.Payloads) {
		payload := s.Payloads[s.next]
		s.next++
		return payload, nil
	}

	if s.Err != nil {
		return nil, s.Err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.closed:
		return nil, errors.New("subscription closed")
	}
}

func (s *MockSubscription) Close() error {
	s.CloseCount.Add(1)
	s.closeOnce.Do(func() { close(s.closed) })
	return nil
}
