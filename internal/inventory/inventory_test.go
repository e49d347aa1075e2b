package inventory

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T, snapshot []domain.SeatRecord) *Inventory {
	t.Helper()

	layout := domain.SeatingLayout{Rows: 3, SeatsPerRow: 4}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(7, layout, decimal.NewFromInt(250), snapshot, logger)
}

// assertPartition checks that every seat holds exactly one status and the
// selection only contains seats in SELECTED state.
func assertPartition(t *testing.T, inv *Inventory) {
	t.Helper()

	selected := make(map[string]bool)
	for _, id := range inv.Selection() {
		selected[id] = true
	}

	for _, seat := range inv.Seats() {
		switch seat.Status {
		case domain.SeatAvailable, domain.SeatLocked, domain.SeatBooked:
			assert.False(t, selected[seat.ID], "seat %s is %s but still in selection", seat.ID, seat.Status)
		case domain.SeatSelected:
			assert.True(t, selected[seat.ID], "seat %s is SELECTED but missing from selection", seat.ID)
		default:
			t.Fatalf("seat %s has unknown status %q", seat.ID, seat.Status)
		}
	}
}

func TestNew_SnapshotMerge(t *testing.T) {
	inv := newTestInventory(t, []domain.SeatRecord{
		{SeatNumber: "A1", Status: domain.SeatBooked},
		{SeatNumber: "B2", Status: domain.SeatLocked},
		{SeatNumber: "Z9", Status: domain.SeatBooked}, // outside the grid, kept anyway
	})

	assert.Equal(t, domain.SeatBooked, inv.Status("A1"))
	assert.Equal(t, domain.SeatLocked, inv.Status("B2"))
	assert.Equal(t, domain.SeatBooked, inv.Status("Z9"))
	assert.Equal(t, domain.SeatAvailable, inv.Status("C4"))
	assertPartition(t, inv)
}

func TestToggleSelect(t *testing.T) {
	tests := []struct {
		name          string
		snapshot      []domain.SeatRecord
		toggles       []string
		wantSelection []string
		wantErr       error
	}{
		{
			name:          "selects available seats in insertion order",
			toggles:       []string{"B3", "A1", "C2"},
			wantSelection: []string{"B3", "A1", "C2"},
		},
		{
			name:          "second toggle deselects",
			toggles:       []string{"A1", "A2", "A1"},
			wantSelection: []string{"A2"},
		},
		{
			name:          "booked seat is rejected without state change",
			snapshot:      []domain.SeatRecord{{SeatNumber: "A1", Status: domain.SeatBooked}},
			toggles:       []string{"A1"},
			wantSelection: nil,
			wantErr:       domain.ErrSeatUnavailable,
		},
		{
			name:          "locked seat is rejected",
			snapshot:      []domain.SeatRecord{{SeatNumber: "B2", Status: domain.SeatLocked}},
			toggles:       []string{"B2"},
			wantSelection: nil,
			wantErr:       domain.ErrSeatUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInventory(t, tt.snapshot)

			var (
				selection []string
				err       error
			)
			for _, id := range tt.toggles {
				selection, err = inv.ToggleSelect(id)
			}

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Empty(t, cmp.Diff(tt.wantSelection, selection))
			assertPartition(t, inv)
		})
	}
}

func TestTotalAmount_TracksSelection(t *testing.T) {
	inv := newTestInventory(t, nil)

	assert.True(t, inv.TotalAmount().IsZero())

	inv.ToggleSelect("A1")
	inv.ToggleSelect("A2")
	assert.True(t, inv.TotalAmount().Equal(decimal.NewFromInt(500)), "got %s", inv.TotalAmount())

	inv.ToggleSelect("A1")
	assert.True(t, inv.TotalAmount().Equal(decimal.NewFromInt(250)), "got %s", inv.TotalAmount())
}

func TestApplyLiveEvent_Idempotent(t *testing.T) {
	inv := newTestInventory(t, nil)

	ev := domain.LiveEvent{Type: domain.EventSeatBooked, Seats: []string{"A1", "B2"}}

	inv.ApplyLiveEvent(ev)
	first := inv.Seats()

	evicted := inv.ApplyLiveEvent(ev)
	assert.Empty(t, evicted)
	assert.Empty(t, cmp.Diff(first, inv.Seats()))
	assertPartition(t, inv)
}

func TestApplyLiveEvent_EvictsSelectedSeat(t *testing.T) {
	inv := newTestInventory(t, nil)

	inv.ToggleSelect("C3")
	inv.ToggleSelect("C4")
	require.True(t, inv.TotalAmount().Equal(decimal.NewFromInt(500)))

	evicted := inv.ApplyLiveEvent(domain.LiveEvent{Type: domain.EventSeatBooked, Seats: []string{"C3"}})

	assert.Equal(t, []string{"C3"}, evicted)
	assert.Equal(t, domain.SeatBooked, inv.Status("C3"))
	assert.Equal(t, []string{"C4"}, inv.Selection())
	assert.True(t, inv.TotalAmount().Equal(decimal.NewFromInt(250)), "amount must recompute after eviction")
	assertPartition(t, inv)
}

func TestApplyLiveEvent_ReleaseKeepsSelection(t *testing.T) {
	inv := newTestInventory(t, []domain.SeatRecord{{SeatNumber: "A1", Status: domain.SeatBooked}})

	inv.ToggleSelect("A2")

	inv.ApplyLiveEvent(domain.LiveEvent{Type: domain.EventSeatReleased, Seats: []string{"A1", "A2"}})

	assert.Equal(t, domain.SeatAvailable, inv.Status("A1"))
	assert.Equal(t, domain.SeatSelected, inv.Status("A2"), "a release must not clobber the local selection")
	assertPartition(t, inv)
}

func TestResync_DropsSelection(t *testing.T) {
	inv := newTestInventory(t, nil)

	inv.ToggleSelect("A1")
	inv.Resync([]domain.SeatRecord{{SeatNumber: "A1", Status: domain.SeatBooked}})

	assert.Empty(t, inv.Selection())
	assert.Equal(t, domain.SeatBooked, inv.Status("A1"))
	assertPartition(t, inv)
}

func TestReconcile_KeepsSurvivingSelection(t *testing.T) {
	inv := newTestInventory(t, []domain.SeatRecord{{SeatNumber: "B1", Status: domain.SeatLocked}})

	inv.ToggleSelect("A1")
	inv.ToggleSelect("A2")

	evicted := inv.Reconcile([]domain.SeatRecord{
		{SeatNumber: "A1", Status: domain.SeatBooked},
		{SeatNumber: "B1", Status: domain.SeatAvailable},
	})

	assert.Equal(t, []string{"A1"}, evicted)
	assert.Equal(t, []string{"A2"}, inv.Selection(), "untouched selection survives the reconcile")
	assert.Equal(t, domain.SeatAvailable, inv.Status("B1"))
	assertPartition(t, inv)
}

func TestSeats_DisplayOrder(t *testing.T) {
	layout := domain.SeatingLayout{Rows: 1, SeatsPerRow: 11}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inv := New(7, layout, decimal.NewFromInt(100), nil, logger)

	seats := inv.Seats()

	require.Len(t, seats, 11)
	assert.Equal(t, "A2", seats[1].ID)
	assert.Equal(t, "A10", seats[9].ID)
	assert.Equal(t, "A11", seats[10].ID)
}
