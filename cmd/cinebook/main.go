// Command cinebook drives a complete booking flow against the CinemaBook
// backend: sign in, pick seats for a show while following the live seat
// broadcast, reserve, confirm payment, and print the receipt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cinemabook/booking-client/internal/api"
	"github.com/cinemabook/booking-client/internal/authz"
	"github.com/cinemabook/booking-client/internal/booking"
	"github.com/cinemabook/booking-client/internal/domain"
	"github.com/cinemabook/booking-client/internal/live"
	"github.com/cinemabook/booking-client/internal/session"
	"github.com/cinemabook/booking-client/internal/validator"
	"github.com/cinemabook/booking-client/internal/vcs"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

var version = vcs.Version()

type config struct {
	baseURL  string
	redisURL string
	email    string
	password string
	showID   int
	seats    string
	timeout  time.Duration
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Optional .env for local runs; flags and real env still win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	var cfg config

	flag.StringVar(&cfg.baseURL, "base-url", envOr("CINEBOOK_API_URL", "http://localhost:8080/api"), "Backend base URL")
	flag.StringVar(&cfg.redisURL, "redis-url", envOr("CINEBOOK_REDIS_URL", "redis://localhost:6379/0"), "Redis URL for the live seat channel")
	flag.StringVar(&cfg.email, "email", os.Getenv("CINEBOOK_EMAIL"), "Account email (omit to reuse the stored session)")
	flag.StringVar(&cfg.password, "password", os.Getenv("CINEBOOK_PASSWORD"), "Account password")
	flag.IntVar(&cfg.showID, "show", 0, "Show id to book")
	flag.StringVar(&cfg.seats, "seats", "", "Comma-joined seat ids to select (e.g. A1,A2)")
	flag.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "Per-request timeout")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		return nil
	}

	if cfg.showID < 1 || cfg.seats == "" {
		flag.Usage()
		return errors.New("both -show and -seats are required")
	}

	validate := validator.NewValidator()

	store, err := session.NewFileStore()
	if err != nil {
		return err
	}

	// The session manager doubles as the client's token source.
	var sessions *session.Manager
	client := api.NewClient(cfg.baseURL, nil, tokenSourceFunc(func() string { return sessions.Token() }), logger)
	sessions = session.NewManager(client, store, validate, logger)

	ctx := context.Background()

	if cfg.email != "" {
		loginCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
		defer cancel()

		if _, err := sessions.Login(loginCtx, session.Credentials{Email: cfg.email, Password: cfg.password}); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	if decision := authz.Authorize(sessions.Current(), domain.RoleUser); !decision.Allow {
		return fmt.Errorf("not authorized for the booking view, go to %s", decision.RedirectTo)
	}

	redisOpts, err := redis.ParseURL(cfg.redisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}

	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	channel := live.NewChannel(live.NewRedisSubscriber(redisClient), logger)
	opener := booking.OpenerFunc(func(showID int) booking.LiveHandle { return channel.Open(showID) })

	bs := booking.NewSession(client, sessions, opener, validate, logger)
	defer bs.Cancel()

	enterCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	if err := bs.Enter(enterCtx, cfg.showID); err != nil {
		var snapErr *domain.SnapshotError
		if errors.As(err, &snapErr) {
			return fmt.Errorf("show not found or unavailable: %w", err)
		}
		return err
	}

	for _, seatID := range strings.Split(cfg.seats, ",") {
		selection, err := bs.ToggleSeat(strings.TrimSpace(seatID))
		if err != nil {
			if errors.Is(err, domain.ErrSeatUnavailable) {
				logger.Warn("seat not available, skipped", "seat", seatID)
				continue
			}
			return err
		}
		logger.Info("selection updated", "seats", selection, "total", bs.TotalAmount())
	}

	reserveCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	draft, err := bs.Reserve(reserveCtx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthenticated):
			return errors.New("session expired, sign in again")
		case errors.Is(err, domain.ErrSeatConflict):
			return errors.New("some seats were taken while you were choosing, pick again")
		}
		return err
	}

	logger.Info("draft reserved", "booking_id", draft.ID, "status", draft.PaymentStatus)

	confirmCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	receipt, err := bs.ConfirmPayment(confirmCtx)
	if err != nil {
		return fmt.Errorf("payment not confirmed, retry later with booking id %d: %w", draft.ID, err)
	}

	fmt.Printf("Booking #%d confirmed\n", receipt.BookingID)
	fmt.Printf("  %s at %s\n", receipt.MovieTitle, receipt.TheaterName)
	fmt.Printf("  %s %s\n", receipt.ShowDate, receipt.ShowTime)
	fmt.Printf("  Seats: %s\n", receipt.Seats)
	fmt.Printf("  Amount: %s (%s)\n", receipt.TotalAmount, receipt.PaymentStatus)

	return nil
}

type tokenSourceFunc func() string

func (f tokenSourceFunc) Token() string {
	return f()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
