package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSeatUnavailable = errors.New("seat is not available for selection")
	ErrSeatConflict    = errors.New("seat(s) were taken before the booking was submitted")
	ErrUnauthenticated = errors.New("no valid session")
	ErrEmptySelection  = errors.New("no seats selected")
	ErrAuthFailed      = errors.New("invalid credentials")
)

// SnapshotError wraps a failed seat snapshot or show lookup. The caller
// shows a "show unavailable" fallback and does not retry automatically.
type SnapshotError struct {
	ShowID int
	Err    error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("snapshot for show %d unavailable: %v", e.ShowID, e.Err)
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

// PaymentConfirmationError wraps a failed payment confirmation call. The
// draft stays resumable; confirmation may be retried on the same booking id.
type PaymentConfirmationError struct {
	BookingID int
	Err       error
}

func (e *PaymentConfirmationError) Error() string {
	return fmt.Sprintf("payment confirmation for booking %d failed: %v", e.BookingID, e.Err)
}

func (e *PaymentConfirmationError) Unwrap() error {
	return e.Err
}
