package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Session is the authenticated identity of the current user. It is created
// on successful login, destroyed on logout or token expiry, and persists
// across process restarts via a single canonical client-side record.
type Session struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     Role   `json:"role"`
}

// Valid reports whether the session carries both a token and a role. A
// record with one but not the other is treated as no session at all.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && (s.Role == RoleUser || s.Role == RoleAdmin)
}
