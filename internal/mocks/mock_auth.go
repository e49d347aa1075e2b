package mocks

import (
	"context"

	"github.com/cinemabook/booking-client/internal/api"
)

type MockAuthAPI struct {
	SignInFunc func(ctx context.Context, req api.SignInRequest) (*api.SignInResponse, error)
	SignUpFunc func(ctx context.Context, req api.SignUpRequest) error
}

func (m *MockAuthAPI) SignIn(ctx context.Context, req api.SignInRequest) (*api.SignInResponse, error) {
	return m.SignInFunc(ctx, req)
}

func (m *MockAuthAPI) SignUp(ctx context.Context, req api.SignUpRequest) error {
	return m.SignUpFunc(ctx, req)
}
