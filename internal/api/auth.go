package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cinemabook/booking-client/internal/domain"
)

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=25"`
}

type SignUpRequest struct {
	Username string   `json:"username" validate:"required,min=2,max=50"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=25"`
	Roles    []string `json:"role"`
}

// SignInResponse mirrors the auth endpoint's payload. Role membership is
// derived from the Roles claim by the session layer, not here.
type SignInResponse struct {
	AccessToken string   `json:"accessToken"`
	ID          int      `json:"id"`
	Email       string   `json:"email"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
}

// SignIn exchanges credentials for an access token and identity.
func (c *Client) SignIn(ctx context.Context, req SignInRequest) (*SignInResponse, error) {
	var resp SignInResponse

	err := c.doJSON(ctx, http.MethodPost, "/auth/signin", nil, req, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
			return nil, domain.ErrAuthFailed
		}
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("auth response carried no access token")
	}

	return &resp, nil
}

// SignUp registers a new account. The backend assigns the user role.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) error {
	if len(req.Roles) == 0 {
		req.Roles = []string{string(domain.RoleUser)}
	}

	return c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, req, nil)
}
