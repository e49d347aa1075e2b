package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cinemabook/booking-client/internal/domain"
)

// BookingRequest is the body of POST /bookings. SeatNumbers is the
// comma-joined selection in insertion order.
type BookingRequest struct {
	UserID        int     `json:"userId" validate:"required,gt=0"`
	ShowID        int     `json:"showId" validate:"required,gt=0"`
	MovieID       int     `json:"movieId" validate:"required,gt=0"`
	TheaterID     int     `json:"theaterId" validate:"required,gt=0"`
	SeatNumbers   string  `json:"seatNumbers" validate:"required,seat_list"`
	TotalAmount   float64 `json:"totalAmount" validate:"gte=0"`
	PaymentStatus string  `json:"paymentStatus" validate:"required,oneof=PENDING"`
	UserEmail     string  `json:"userEmail" validate:"required,email"`
}

// BookingResponse is the server's view of a draft after submission or
// confirmation. The id is server-assigned.
type BookingResponse struct {
	ID            int     `json:"id"`
	UserID        int     `json:"userId"`
	ShowID        int     `json:"showId"`
	MovieID       int     `json:"movieId"`
	TheaterID     int     `json:"theaterId"`
	SeatNumbers   string  `json:"seatNumbers"`
	TotalAmount   float64 `json:"totalAmount"`
	PaymentStatus string  `json:"paymentStatus"`
}

// CreateBooking submits a booking draft. The idempotency key is carried on
// the request so a retried submission can never create a second booking for
// the same draft. Requires an authenticated token source.
func (c *Client) CreateBooking(ctx context.Context, idempotencyKey string, req BookingRequest) (*BookingResponse, error) {
	if c.tokens == nil || c.tokens.Token() == "" {
		return nil, domain.ErrUnauthenticated
	}

	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	var resp BookingResponse
	err := c.doJSON(ctx, http.MethodPost, "/bookings", headers, req, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return nil, domain.ErrUnauthenticated
			case http.StatusConflict:
				return nil, domain.ErrSeatConflict
			}
		}
		return nil, err
	}

	return &resp, nil
}

// ConfirmBooking marks the booking paid. Failures are reported as a
// PaymentConfirmationError; the caller may retry with the same booking id.
func (c *Client) ConfirmBooking(ctx context.Context, bookingID int) (*BookingResponse, error) {
	var resp BookingResponse

	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/bookings/%d/confirm", bookingID), nil, nil, &resp)
	if err != nil {
		return nil, &domain.PaymentConfirmationError{BookingID: bookingID, Err: err}
	}

	return &resp, nil
}

// BookingsByUser fetches the booking history of a user.
func (c *Client) BookingsByUser(ctx context.Context, userID int) ([]BookingResponse, error) {
	var bookings []BookingResponse
	err := c.getJSON(ctx, fmt.Sprintf("/bookings/user/%d", userID), &bookings)
	return bookings, err
}
