package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/cinemabook/booking-client/internal/api"
	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

const adminRoleClaim = "ROLE_ADMIN"

// AuthAPI is the slice of the backend the session layer needs.
type AuthAPI interface {
	SignIn(ctx context.Context, req api.SignInRequest) (*api.SignInResponse, error)
	SignUp(ctx context.Context, req api.SignUpRequest) error
}

// Manager is the single writer of the persisted identity record. It loads
// the record lazily, caches it, and hands read-only copies to consumers.
type Manager struct {
	auth      AuthAPI
	store     Store
	validator *validator.Validate
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	current *domain.Session
	loaded  bool
}

func NewManager(auth AuthAPI, store Store, validator *validator.Validate, logger *slog.Logger) *Manager {
	return &Manager{
		auth:      auth,
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=25"`
}

type Registration struct {
	Name     string `validate:"required,min=2,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=25"`
}

// Login exchanges credentials for a session, persists it as the canonical
// record, and returns it. The admin role is derived from the roles claim.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	if err := m.validator.Struct(creds); err != nil {
		return nil, err
	}

	resp, err := m.auth.SignIn(ctx, api.SignInRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if slices.Contains(resp.Roles, adminRoleClaim) {
		role = domain.RoleAdmin
	}

	sess := &domain.Session{
		Token:    resp.AccessToken,
		UserID:   resp.ID,
		Email:    resp.Email,
		UserName: resp.Username,
		Role:     role,
	}

	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = sess
	m.loaded = true
	m.mu.Unlock()

	m.logger.Info("session established", "user_id", sess.UserID, "role", sess.Role)

	return sess, nil
}

// Register creates a new account. It does not log the user in; the backend
// expects a follow-up sign-in.
func (m *Manager) Register(ctx context.Context, reg Registration) error {
	if err := m.validator.Struct(reg); err != nil {
		return err
	}

	return m.auth.SignUp(ctx, api.SignUpRequest{
		Username: reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
	})
}

// Logout discards the session. Token, role, email and cached identity are
// cleared together; a record with a token but no role is never left behind.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.current = nil
	m.loaded = true
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		return err
	}

	m.logger.Info("session cleared")

	return nil
}

// Current returns the active session, or nil when there is none. Expired
// tokens are treated as no session and the stale record is dropped.
func (m *Manager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loaded {
		sess, err := m.store.Load()
		if err != nil {
			m.logger.Warn("failed to load persisted session", "error", err)
		}
		m.current = sess
		m.loaded = true
	}

	if m.current == nil {
		return nil
	}

	if !m.current.Valid() || m.tokenExpired(m.current.Token) {
		m.current = nil
		if err := m.store.Clear(); err != nil {
			m.logger.Warn("failed to clear stale session", "error", err)
		}
		return nil
	}

	return m.current
}

// IsValid reports whether a usable session exists.
func (m *Manager) IsValid() bool {
	return m.Current() != nil
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	sess := m.Current()
	if sess == nil {
		return ""
	}
	return sess.Token
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client holds no signing secret, so verification stays with
// the server. Opaque tokens are assumed live until the server rejects them.
func (m *Manager) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(m.now())
}
