package domain

import (
	"fmt"
	"regexp"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatSelected  SeatStatus = "SELECTED"
	SeatLocked    SeatStatus = "LOCKED"
	SeatBooked    SeatStatus = "BOOKED"
)

var seatIDPattern = regexp.MustCompile(`^[A-Z][0-9]+$`)

// Seat is one seat of a show as seen by this client. A seat has exactly one
// status at any instant; the full seat set for a show is partitioned by status.
type Seat struct {
	ID     string
	Status SeatStatus
}

// SeatRecord is a snapshot entry as delivered by the seats endpoint.
type SeatRecord struct {
	SeatNumber string     `json:"seatNumber"`
	Status     SeatStatus `json:"status"`
}

// SeatingLayout describes the seating geometry of a hall: row count, seats
// per row and the zero-based column indices before which an aisle is drawn.
type SeatingLayout struct {
	Rows        int   `json:"rows"`
	SeatsPerRow int   `json:"seatsPerRow"`
	Aisles      []int `json:"aisles,omitempty"`
}

// SeatID builds the row-letter plus seat-number identifier ("C7") for
// zero-based row and column indices.
func SeatID(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row), col+1)
}

// ValidSeatID reports whether id has the RowLetter+Number shape.
func ValidSeatID(id string) bool {
	return seatIDPattern.MatchString(id)
}

// SeatIDs enumerates every seat id of the layout in display order, row by
// row. The snapshot may omit seats the server considers available, so the
// client reconciles against the full grid.
func (l SeatingLayout) SeatIDs() []string {
	ids := make([]string, 0, l.Rows*l.SeatsPerRow)

	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.SeatsPerRow; col++ {
			ids = append(ids, SeatID(row, col))
		}
	}

	return ids
}
