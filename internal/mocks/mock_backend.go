package mocks

import (
	"context"

	"github.com/cinemabook/booking-client/internal/api"
	"github.com/cinemabook/booking-client/internal/domain"
)

type MockBackend struct {
	GetShowFunc        func(ctx context.Context, id int) (domain.Show, error)
	GetMovieFunc       func(ctx context.Context, id int) (domain.Movie, error)
	GetTheaterFunc     func(ctx context.Context, id int) (domain.Theater, error)
	SeatsByShowFunc    func(ctx context.Context, showID int) ([]domain.SeatRecord, error)
	CreateBookingFunc  func(ctx context.Context, idempotencyKey string, req api.BookingRequest) (*api.BookingResponse, error)
	ConfirmBookingFunc func(ctx context.Context, bookingID int) (*api.BookingResponse, error)
}

func (m *MockBackend) GetShow(ctx context.Context, id int) (domain.Show, error) {
	return m.GetShowFunc(ctx, id)
}

func (m *MockBackend) GetMovie(ctx context.Context, id int) (domain.Movie, error) {
	return m.GetMovieFunc(ctx, id)
}

func (m *MockBackend) GetTheater(ctx context.Context, id int) (domain.Theater, error) {
	return m.GetTheaterFunc(ctx, id)
}

func (m *MockBackend) SeatsByShow(ctx context.Context, showID int) ([]domain.SeatRecord, error) {
	return m.SeatsByShowFunc(ctx, showID)
}

func (m *MockBackend) CreateBooking(ctx context.Context, idempotencyKey string, req api.BookingRequest) (*api.BookingResponse, error) {
	return m.CreateBookingFunc(ctx, idempotencyKey, req)
}

func (m *MockBackend) ConfirmBooking(ctx context.Context, bookingID int) (*api.BookingResponse, error) {
	return m.ConfirmBookingFunc(ctx, bookingID)
}
