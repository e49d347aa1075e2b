// Package inventory holds the client-side source of truth for seat statuses
// of one show. It merges the initial snapshot with live change events
// without losing the user's in-progress selection.
package inventory

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/shopspring/decimal"
)

// Inventory partitions every seat of a show into exactly one of AVAILABLE,
// SELECTED, LOCKED or BOOKED. Merges are last-write-wins per seat id: the
// transport gives no ordering guarantee, so each event is authoritative at
// arrival and a booked or locked seat is never rolled back by staleness
// heuristics.
type Inventory struct {
	showID    int
	unitPrice decimal.Decimal
	logger    *slog.Logger

	mu        sync.Mutex
	statuses  map[string]domain.SeatStatus
	selection []string // insertion order
}

// New builds the inventory from the show's seating geometry and a seat
// snapshot. Seats the snapshot does not mention are available; seats outside
// the geometry are carried as-is so an oversized snapshot is not truncated.
func New(showID int, layout domain.SeatingLayout, unitPrice decimal.Decimal, snapshot []domain.SeatRecord, logger *slog.Logger) *Inventory {
	statuses := make(map[string]domain.SeatStatus, layout.Rows*layout.SeatsPerRow)

	for _, id := range layout.SeatIDs() {
		statuses[id] = domain.SeatAvailable
	}

	inv := &Inventory{
		showID:    showID,
		unitPrice: unitPrice,
		logger:    logger,
		statuses:  statuses,
	}

	inv.mergeSnapshot(snapshot)

	return inv
}

func (inv *Inventory) mergeSnapshot(snapshot []domain.SeatRecord) {
	for _, rec := range snapshot {
		switch rec.Status {
		case domain.SeatBooked, domain.SeatLocked, domain.SeatAvailable:
			inv.statuses[rec.SeatNumber] = rec.Status
		default:
			inv.logger.Warn("snapshot carried unknown seat status, seat kept available",
				"show_id", inv.showID, "seat", rec.SeatNumber, "status", rec.Status)
		}
	}
}

// Resync replaces seat state with a fresh snapshot and drops the selection.
// Used after a reservation conflict or a live channel reconnect, when seats
// may have been booked by others while the client could not observe it.
func (inv *Inventory) Resync(snapshot []domain.SeatRecord) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for id := range inv.statuses {
		inv.statuses[id] = domain.SeatAvailable
	}
	inv.selection = nil

	inv.mergeSnapshot(snapshot)
}

// Reconcile merges a fresh snapshot over current state without discarding
// the selection, for use after a live channel outage: seats booked or locked
// by others during the gap are demoted, evicting them from the selection
// when held there, and seats the snapshot reports free again are released.
// Returns the evicted seat ids.
func (inv *Inventory) Reconcile(snapshot []domain.SeatRecord) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var evicted []string

	for _, rec := range snapshot {
		switch rec.Status {
		case domain.SeatBooked, domain.SeatLocked:
			if inv.statuses[rec.SeatNumber] == domain.SeatSelected {
				inv.selection = slices.DeleteFunc(inv.selection, func(id string) bool { return id == rec.SeatNumber })
				evicted = append(evicted, rec.SeatNumber)
			}
			inv.statuses[rec.SeatNumber] = rec.Status
		case domain.SeatAvailable:
			if st := inv.statuses[rec.SeatNumber]; st == domain.SeatBooked || st == domain.SeatLocked {
				inv.statuses[rec.SeatNumber] = domain.SeatAvailable
			}
		}
	}

	return evicted
}

// ToggleSelect flips a seat between AVAILABLE and SELECTED and returns the
// updated selection. Selecting a locked or booked seat is a no-op reported
// as ErrSeatUnavailable; no network call is involved.
func (inv *Inventory) ToggleSelect(seatID string) ([]string, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	switch inv.statuses[seatID] {
	case domain.SeatAvailable:
		inv.statuses[seatID] = domain.SeatSelected
		inv.selection = append(inv.selection, seatID)
	case domain.SeatSelected:
		inv.statuses[seatID] = domain.SeatAvailable
		inv.selection = slices.DeleteFunc(inv.selection, func(id string) bool { return id == seatID })
	default:
		return inv.selectionLocked(), domain.ErrSeatUnavailable
	}

	return inv.selectionLocked(), nil
}

// ApplyLiveEvent merges one seat-change event and returns the seat ids that
// were evicted from the active selection, so the caller can surface the loss
// and recompute the amount. Re-applying an identical event is a no-op.
func (inv *Inventory) ApplyLiveEvent(ev domain.LiveEvent) []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var evicted []string

	for _, seatID := range ev.Seats {
		switch ev.Type {
		case domain.EventSeatBooked:
			if inv.statuses[seatID] == domain.SeatSelected {
				inv.selection = slices.DeleteFunc(inv.selection, func(id string) bool { return id == seatID })
				evicted = append(evicted, seatID)
			}
			inv.statuses[seatID] = domain.SeatBooked
		case domain.EventSeatReleased:
			// The user's own selection survives a release for the same seat.
			if st := inv.statuses[seatID]; st == domain.SeatBooked || st == domain.SeatLocked {
				inv.statuses[seatID] = domain.SeatAvailable
			}
		}
	}

	return evicted
}

// Selection returns the selected seat ids in insertion order.
func (inv *Inventory) Selection() []string {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	return inv.selectionLocked()
}

func (inv *Inventory) selectionLocked() []string {
	return slices.Clone(inv.selection)
}

// Status returns the current status of one seat. Seats outside the known
// grid report as available, matching how the snapshot treats them.
func (inv *Inventory) Status(seatID string) domain.SeatStatus {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if st, ok := inv.statuses[seatID]; ok {
		return st
	}
	return domain.SeatAvailable
}

// TotalAmount is always the live recomputation unitPrice × |selection|.
func (inv *Inventory) TotalAmount() decimal.Decimal {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	return inv.unitPrice.Mul(decimal.NewFromInt(int64(len(inv.selection))))
}

// Seats returns the full seat set in display order, partitioned by status.
func (inv *Inventory) Seats() []domain.Seat {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	ids := make([]string, 0, len(inv.statuses))
	for id := range inv.statuses {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareSeatIDs)

	seats := make([]domain.Seat, len(ids))
	for i, id := range ids {
		seats[i] = domain.Seat{ID: id, Status: inv.statuses[id]}
	}

	return seats
}

// compareSeatIDs orders "A2" before "A10": row letter first, then the
// numeric part.
func compareSeatIDs(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return strings.Compare(a, b)
	}
	if a[0] != b[0] {
		return int(a[0]) - int(b[0])
	}

	an, aErr := strconv.Atoi(a[1:])
	bn, bErr := strconv.Atoi(b[1:])
	if aErr != nil || bErr != nil {
		return strings.Compare(a, b)
	}

	return an - bn
}
