package authz

import (
	"testing"

	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	userSession := &domain.Session{Token: "t", UserID: 1, Role: domain.RoleUser}
	adminSession := &domain.Session{Token: "t", UserID: 2, Role: domain.RoleAdmin}

	tests := []struct {
		name     string
		session  *domain.Session
		required domain.Role
		want     Decision
	}{
		{
			name:     "no session redirects to auth",
			session:  nil,
			required: domain.RoleUser,
			want:     Decision{RedirectTo: RouteAuth},
		},
		{
			name:     "token without role redirects to auth",
			session:  &domain.Session{Token: "t"},
			required: domain.RoleAdmin,
			want:     Decision{RedirectTo: RouteAuth},
		},
		{
			name:     "user entering user route is allowed",
			session:  userSession,
			required: domain.RoleUser,
			want:     Decision{Allow: true},
		},
		{
			name:     "user entering admin route redirects to user home",
			session:  userSession,
			required: domain.RoleAdmin,
			want:     Decision{RedirectTo: RouteUserHome},
		},
		{
			name:     "admin entering admin route is allowed",
			session:  adminSession,
			required: domain.RoleAdmin,
			want:     Decision{Allow: true},
		},
		{
			name:     "admin entering user route redirects to admin home",
			session:  adminSession,
			required: domain.RoleUser,
			want:     Decision{RedirectTo: RouteAdminHome},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.session, tt.required))
		})
	}
}

func TestAuthorizeAuthRoute(t *testing.T) {
	assert.Equal(t, Decision{Allow: true}, AuthorizeAuthRoute(nil))

	assert.Equal(t,
		Decision{RedirectTo: RouteUserHome},
		AuthorizeAuthRoute(&domain.Session{Token: "t", Role: domain.RoleUser}))

	assert.Equal(t,
		Decision{RedirectTo: RouteAdminHome},
		AuthorizeAuthRoute(&domain.Session{Token: "t", Role: domain.RoleAdmin}))
}
