package api

import (
	"context"
	"fmt"

	"github.com/cinemabook/booking-client/internal/domain"
)

// SeatsByShow fetches the point-in-time seat snapshot for a show. Any
// failure is reported as a SnapshotError so the caller can fall back to a
// "show unavailable" view without inspecting the transport.
func (c *Client) SeatsByShow(ctx context.Context, showID int) ([]domain.SeatRecord, error) {
	var records []domain.SeatRecord

	err := c.getJSON(ctx, fmt.Sprintf("/seats/show/%d", showID), &records)
	if err != nil {
		return nil, &domain.SnapshotError{ShowID: showID, Err: err}
	}

	return records, nil
}
