// Package authz is the one place role-gated navigation is decided. Every
// protected-route entry evaluates the same table; there is intentionally no
// second implementation anywhere else.
package authz

import "github.com/cinemabook/booking-client/internal/domain"

type Route string

const (
	RouteAuth      Route = "/auth"
	RouteUserHome  Route = "/"
	RouteAdminHome Route = "/admin"
)

// Decision is the outcome of a protected-route entry: either proceed, or
// navigate to RedirectTo instead.
type Decision struct {
	Allow      bool
	RedirectTo Route
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to Route) Decision {
	return Decision{RedirectTo: to}
}

// Home returns the landing route for a role.
func Home(role domain.Role) Route {
	if role == domain.RoleAdmin {
		return RouteAdminHome
	}
	return RouteUserHome
}

// Authorize decides entry to a route requiring the given role. An invalid
// session is sent to the auth view; a valid session with the wrong role is
// sent to its own home rather than the requested one.
func Authorize(sess *domain.Session, required domain.Role) Decision {
	if !sess.Valid() {
		return redirect(RouteAuth)
	}

	if sess.Role != required {
		return redirect(Home(sess.Role))
	}

	return allow()
}

// AuthorizeAuthRoute decides entry to the auth view itself: an already
// authenticated user is bounced to their home.
func AuthorizeAuthRoute(sess *domain.Session) Decision {
	if sess.Valid() {
		return redirect(Home(sess.Role))
	}
	return allow()
}
