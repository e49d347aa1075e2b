package mocks

import (
	"sync"
	"sync/atomic"

	"github.com/cinemabook/booking-client/internal/domain"
)

// MockLiveHandle is a scriptable live subscription handle. Tests push
// events through EventsCh; Close closes the channel so the consumer's merge
// loop terminates, as the real handle does.
type MockLiveHandle struct {
	EventsCh    chan domain.LiveEvent
	ReconnectCh chan struct{}

	CloseCount atomic.Int32
	closeOnce  sync.Once
}

func NewMockLiveHandle() *MockLiveHandle {
	return &MockLiveHandle{
		EventsCh:    make(chan domain.LiveEvent, 16),
		ReconnectCh: make(chan struct{}, 1),
	}
}

func (h *MockLiveHandle) Events() <-chan domain.LiveEvent {
	return h.EventsCh
}

func (h *MockLiveHandle) Reconnects() <-chan struct{} {
	return h.ReconnectCh
}

func (h *MockLiveHandle) Close() {
	h.CloseCount.Add(1)
	h.closeOnce.Do(func() { close(h.EventsCh) })
}

type MockIdentity struct {
	Session *domain.Session
}

func (m *MockIdentity) Current() *domain.Session {
	return m.Session
}
