package booking

// State is the position of a booking session in the strict sequence from
// seat selection through reservation and payment to the receipt.
type State int

const (
	StateBrowsing State = iota
	StateSeatSelecting
	StateReserving
	StateAwaitingPayment
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "Browsing"
	case StateSeatSelecting:
		return "SeatSelecting"
	case StateReserving:
		return "Reserving"
	case StateAwaitingPayment:
		return "AwaitingPayment"
	case StateConfirmed:
		return "Confirmed"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
