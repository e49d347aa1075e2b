package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = "NONE"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// BookingDraft is the in-progress record of a reservation attempt. The seat
// set and amount are recomputed freely while the payment status is NONE and
// frozen from the moment the draft is submitted.
type BookingDraft struct {
	ID            int
	Key           string // client-generated idempotency key, stable across retries
	UserID        int
	UserEmail     string
	ShowID        int
	MovieID       int
	TheaterID     int
	SeatIDs       []string
	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
}

// SeatNumbers returns the draft's seats in selection order as the
// comma-joined string the bookings endpoint expects.
func (d BookingDraft) SeatNumbers() string {
	return strings.Join(d.SeatIDs, ",")
}

// Frozen reports whether the draft has been submitted, after which the seat
// set and amount may no longer change.
func (d BookingDraft) Frozen() bool {
	return d.PaymentStatus != PaymentStatusNone
}

// Receipt is the finalized view of a paid booking handed to the
// presentation layer. Rendering (PDF, QR) is not this module's concern.
type Receipt struct {
	BookingID     int
	MovieTitle    string
	TheaterName   string
	ShowID        int
	ShowDate      string
	ShowTime      string
	Seats         string // comma-joined, selection order
	TotalAmount   decimal.Decimal
	PaymentStatus PaymentStatus
}
