package domain

import (
	"encoding/json"
	"fmt"
)

type LiveEventType string

const (
	EventSeatBooked   LiveEventType = "SEAT_BOOKED"
	EventSeatReleased LiveEventType = "SEAT_RELEASED"
)

// LiveEvent is an asynchronously pushed notification that one or more seats
// of a show changed status. Events are transient; they are applied to seat
// state and never persisted.
type LiveEvent struct {
	Type  LiveEventType `json:"type"`
	Seats []string      `json:"seats"`
}

// ParseLiveEvent decodes a live channel payload. Unknown event types are
// rejected so the channel can drop them without touching seat state.
func ParseLiveEvent(payload []byte) (LiveEvent, error) {
	var ev LiveEvent

	if err := json.Unmarshal(payload, &ev); err != nil {
		return LiveEvent{}, fmt.Errorf("malformed live event: %w", err)
	}

	switch ev.Type {
	case EventSeatBooked, EventSeatReleased:
	default:
		return LiveEvent{}, fmt.Errorf("unknown live event type %q", ev.Type)
	}

	return ev, nil
}
