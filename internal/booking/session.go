// Package booking drives one booking through the strict sequence of seat
// selection, reservation, payment confirmation and receipt, carrying its
// state across navigation boundaries.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cinemabook/booking-client/internal/api"
	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/cinemabook/booking-client/internal/inventory"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const resyncTimeout = 10 * time.Second

// BackendAPI is the slice of the REST collaborators the session consumes.
type BackendAPI interface {
	GetShow(ctx context.Context, id int) (domain.Show, error)
	GetMovie(ctx context.Context, id int) (domain.Movie, error)
	GetTheater(ctx context.Context, id int) (domain.Theater, error)
	SeatsByShow(ctx context.Context, showID int) ([]domain.SeatRecord, error)
	CreateBooking(ctx context.Context, idempotencyKey string, req api.BookingRequest) (*api.BookingResponse, error)
	ConfirmBooking(ctx context.Context, bookingID int) (*api.BookingResponse, error)
}

// Identity reads the current session. Only the session package writes it.
type Identity interface {
	Current() *domain.Session
}

// LiveHandle is one open live subscription.
type LiveHandle interface {
	Events() <-chan domain.LiveEvent
	Reconnects() <-chan struct{}
	Close()
}

// LiveOpener opens the per-show live subscription.
type LiveOpener interface {
	Open(showID int) LiveHandle
}

// OpenerFunc adapts a function to LiveOpener.
type OpenerFunc func(showID int) LiveHandle

func (f OpenerFunc) Open(showID int) LiveHandle {
	return f(showID)
}

var (
	ErrInvalidState = errors.New("operation not allowed in current booking state")
	ErrNoReceipt    = errors.New("booking is not confirmed")
)

// Session is the booking state machine. All transitions are serialized on
// the session's lock; live events merge concurrently through the inventory
// so an outstanding network call never blocks the event consumer.
type Session struct {
	backend   BackendAPI
	identity  Identity
	live      LiveOpener
	validator *validator.Validate
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	showCtx  *domain.ShowContext
	inv      *inventory.Inventory
	handle   LiveHandle
	loopDone chan struct{}
	idemKey  string
	draft    *domain.BookingDraft
	receipt  *domain.Receipt
}

func NewSession(backend BackendAPI, identity Identity, live LiveOpener, validator *validator.Validate, logger *slog.Logger) *Session {
	return &Session{
		backend:   backend,
		identity:  identity,
		live:      live,
		validator: validator,
		logger:    logger,
		state:     StateBrowsing,
	}
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Enter moves Browsing to SeatSelecting: it assembles the show context,
// loads the seat snapshot, and opens the live subscription. A failed lookup
// or snapshot surfaces as a SnapshotError and leaves the session Browsing;
// the caller shows a "show unavailable" view and does not retry.
func (s *Session) Enter(ctx context.Context, showID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateBrowsing {
		return fmt.Errorf("%w: Enter from %s", ErrInvalidState, s.state)
	}

	showCtx, err := s.loadShowContext(ctx, showID)
	if err != nil {
		return err
	}

	snapshot, err := s.backend.SeatsByShow(ctx, showID)
	if err != nil {
		return err
	}

	s.showCtx = showCtx
	s.inv = inventory.New(showID, showCtx.Theater.SeatingLayout, showCtx.UnitPrice(), snapshot, s.logger)
	s.handle = s.live.Open(showID)
	s.loopDone = make(chan struct{})
	s.state = StateSeatSelecting

	go s.mergeLoop(s.handle, s.inv, showID, s.loopDone)

	s.logger.Info("entered seat selection", "show_id", showID, "movie", showCtx.Movie.Title)

	return nil
}

func (s *Session) loadShowContext(ctx context.Context, showID int) (*domain.ShowContext, error) {
	show, err := s.backend.GetShow(ctx, showID)
	if err != nil {
		return nil, &domain.SnapshotError{ShowID: showID, Err: err}
	}

	movie, err := s.backend.GetMovie(ctx, show.MovieID)
	if err != nil {
		return nil, &domain.SnapshotError{ShowID: showID, Err: err}
	}

	theater, err := s.backend.GetTheater(ctx, show.TheaterID)
	if err != nil {
		return nil, &domain.SnapshotError{ShowID: showID, Err: err}
	}

	return &domain.ShowContext{Show: show, Movie: movie, Theater: theater}, nil
}

// mergeLoop is the single consumer of the live queue. Events apply in
// receipt order; a reconnect triggers a snapshot re-fetch because missed
// broadcasts are not replayed.
func (s *Session) mergeLoop(handle LiveHandle, inv *inventory.Inventory, showID int, done chan struct{}) {
	defer close(done)

	for {
		select {
		case ev, ok := <-handle.Events():
			if !ok {
				return
			}
			if evicted := inv.ApplyLiveEvent(ev); len(evicted) > 0 {
				s.logger.Warn("selected seats taken by another user", "show_id", showID, "seats", evicted)
			}
		case <-handle.Reconnects():
			ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
			snapshot, err := s.backend.SeatsByShow(ctx, showID)
			cancel()
			if err != nil {
				s.logger.Warn("post-reconnect snapshot failed", "show_id", showID, "error", err)
				continue
			}
			if evicted := inv.Reconcile(snapshot); len(evicted) > 0 {
				s.logger.Warn("selected seats lost during outage", "show_id", showID, "seats", evicted)
			}
		}
	}
}

// ToggleSeat flips one seat between available and selected, returning the
// updated selection in insertion order. Unavailable seats report
// ErrSeatUnavailable without a network call.
func (s *Session) ToggleSeat(seatID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSeatSelecting {
		return nil, fmt.Errorf("%w: ToggleSeat from %s", ErrInvalidState, s.state)
	}
	if !domain.ValidSeatID(seatID) {
		return s.inv.Selection(), domain.ErrSeatUnavailable
	}

	return s.inv.ToggleSelect(seatID)
}

// Selection returns the selected seat ids in insertion order.
func (s *Session) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inv == nil {
		return nil
	}
	return s.inv.Selection()
}

// TotalAmount is price × |selection| while selecting, and the frozen draft
// amount once the draft has been submitted.
func (s *Session) TotalAmount() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft != nil && s.draft.Frozen() {
		return s.draft.TotalAmount
	}
	if s.inv == nil {
		return decimal.Zero
	}
	return s.inv.TotalAmount()
}

// Seats exposes the current seat partition for display.
func (s *Session) Seats() []domain.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inv == nil {
		return nil
	}
	return s.inv.Seats()
}

// Reserve moves SeatSelecting through Reserving to AwaitingPayment: it submits
// the draft built from the current selection. ErrUnauthenticated means no
// valid session existed (redirect to login). ErrSeatConflict means the
// server rejected a taken seat; the inventory is re-synced from a fresh
// snapshot and the user reselects. Transport failures keep the selection
// and the idempotency key, so a retry can never double-create the booking.
func (s *Session) Reserve(ctx context.Context) (*domain.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSeatSelecting {
		return nil, fmt.Errorf("%w: Reserve from %s", ErrInvalidState, s.state)
	}

	selection := s.inv.Selection()
	if len(selection) == 0 {
		return nil, domain.ErrEmptySelection
	}

	sess := s.identity.Current()
	if sess == nil {
		return nil, domain.ErrUnauthenticated
	}

	if s.idemKey == "" {
		s.idemKey = uuid.NewString()
	}

	total := s.inv.TotalAmount()
	req := api.BookingRequest{
		UserID:        sess.UserID,
		ShowID:        s.showCtx.Show.ID,
		MovieID:       s.showCtx.Show.MovieID,
		TheaterID:     s.showCtx.Show.TheaterID,
		SeatNumbers:   strings.Join(selection, ","),
		TotalAmount:   total.InexactFloat64(),
		PaymentStatus: string(domain.PaymentStatusPending),
		UserEmail:     sess.Email,
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	s.state = StateReserving

	resp, err := s.backend.CreateBooking(ctx, s.idemKey, req)
	if err != nil {
		s.state = StateSeatSelecting

		if errors.Is(err, domain.ErrSeatConflict) {
			s.idemKey = ""
			s.resyncAfterConflict(ctx)
		}

		return nil, err
	}

	// The server-assigned draft is carried forward verbatim; seats and
	// amount are not re-derived locally past this point.
	s.draft = draftFromResponse(resp, sess.Email)
	s.idemKey = ""
	s.state = StateAwaitingPayment

	s.logger.Info("booking draft created", "booking_id", s.draft.ID, "seats", s.draft.SeatNumbers(), "amount", s.draft.TotalAmount)

	return s.draft, nil
}

func (s *Session) resyncAfterConflict(ctx context.Context) {
	snapshot, err := s.backend.SeatsByShow(ctx, s.showCtx.Show.ID)
	if err != nil {
		s.logger.Warn("post-conflict snapshot failed", "show_id", s.showCtx.Show.ID, "error", err)
		return
	}

	s.inv.Resync(snapshot)
	s.logger.Info("seat state re-synced after conflict", "show_id", s.showCtx.Show.ID)
}

func draftFromResponse(resp *api.BookingResponse, email string) *domain.BookingDraft {
	var seats []string
	if resp.SeatNumbers != "" {
		seats = strings.Split(resp.SeatNumbers, ",")
	}

	return &domain.BookingDraft{
		ID:            resp.ID,
		UserID:        resp.UserID,
		UserEmail:     email,
		ShowID:        resp.ShowID,
		MovieID:       resp.MovieID,
		TheaterID:     resp.TheaterID,
		SeatIDs:       seats,
		TotalAmount:   decimal.NewFromFloat(resp.TotalAmount),
		PaymentStatus: domain.PaymentStatus(resp.PaymentStatus),
	}
}

// ConfirmPayment moves AwaitingPayment to Confirmed, or to Failed on a
// confirmation error. Failed is resumable: the call may be retried on the
// same draft id without re-selecting seats or re-submitting the draft.
func (s *Session) ConfirmPayment(ctx context.Context) (*domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingPayment && s.state != StateFailed {
		return nil, fmt.Errorf("%w: ConfirmPayment from %s", ErrInvalidState, s.state)
	}

	resp, err := s.backend.ConfirmBooking(ctx, s.draft.ID)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}

	s.draft.PaymentStatus = domain.PaymentStatus(resp.PaymentStatus)
	s.receipt = &domain.Receipt{
		BookingID:     resp.ID,
		MovieTitle:    s.showCtx.Movie.Title,
		TheaterName:   s.showCtx.Theater.Name,
		ShowID:        s.showCtx.Show.ID,
		ShowDate:      s.showCtx.Show.ShowDate,
		ShowTime:      s.showCtx.Show.ShowTime,
		Seats:         s.draft.SeatNumbers(),
		TotalAmount:   s.draft.TotalAmount,
		PaymentStatus: s.draft.PaymentStatus,
	}
	s.state = StateConfirmed

	// The booking view is done with live updates once payment clears.
	s.teardownLocked()

	s.logger.Info("booking confirmed", "booking_id", resp.ID)

	return s.receipt, nil
}

// Receipt returns the finalized receipt after confirmation.
func (s *Session) Receipt() (*domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConfirmed {
		return nil, ErrNoReceipt
	}
	return s.receipt, nil
}

// Cancel returns the session to Browsing from any state. The live channel
// is torn down exactly once and the in-memory draft is discarded; a draft
// already submitted simply stays pending server-side.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teardownLocked()

	s.showCtx = nil
	s.inv = nil
	s.draft = nil
	s.receipt = nil
	s.idemKey = ""
	s.state = StateBrowsing
}

func (s *Session) teardownLocked() {
	if s.handle == nil {
		return
	}

	s.handle.Close()
	<-s.loopDone
	s.handle = nil
	s.loopDone = nil
}
