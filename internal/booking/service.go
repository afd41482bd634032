// Package booking implements the seat-inventory booking operation: one
// conditional seat decrement and one booking insert committed together.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iliyamo/aerial-tour-booking/internal/config"
	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/metrics"
	"github.com/iliyamo/aerial-tour-booking/internal/model"
	"github.com/iliyamo/aerial-tour-booking/internal/queue"
	"github.com/iliyamo/aerial-tour-booking/internal/repository"
	"github.com/iliyamo/aerial-tour-booking/internal/telemetry"
)

var (
	// ErrInvalidBooking is returned for a missing tour or user ID or a
	// party size below one.  Nothing is written.
	ErrInvalidBooking = errors.New("invalid booking")

	// ErrSeatsExhausted is returned when the tour has fewer seats left than
	// the booking would take.  Nothing is written.
	ErrSeatsExhausted = errors.New("no seats available")
)

// Publisher receives booking events after commit.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// Result describes a committed booking.
type Result struct {
	BookingID      string
	TourID         string
	SeatsTaken     int
	AvailableSeats int
	CreatedAt      time.Time
}

// Service books seats against the tours table.  It is safe for concurrent
// use; correctness under concurrency comes from the guarded UPDATE, not
// from locks in the process.
type Service struct {
	db        *sql.DB
	tours     *repository.TourRepo
	bookings  *repository.BookingRepo
	publisher Publisher
	metrics   *metrics.Manager
	decrement string
	log       logger.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

// WithPublisher sends a booking.created event after each commit.
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }

func WithMetrics(m *metrics.Manager) Option { return func(s *Service) { s.metrics = m } }

// WithDecrement selects config.DecrementPerBooking (default) or
// config.DecrementPerPerson.
func WithDecrement(policy string) Option { return func(s *Service) { s.decrement = policy } }

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:        db,
		tours:     repository.NewTourRepo(db),
		bookings:  repository.NewBookingRepo(db),
		decrement: config.DecrementPerBooking,
		log:       logger.Named("booking"),
		tracer:    telemetry.Tracer("booking"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SeatsFor returns how many seats a party of numPeople takes under the
// configured policy.
func (s *Service) SeatsFor(numPeople int) int {
	if s.decrement == config.DecrementPerPerson {
		return numPeople
	}
	return 1
}

// Book records a booking for userID on tourID and takes seats from the
// tour in the same transaction.  It fails with repository.ErrTourNotFound
// when the tour does not exist and with ErrSeatsExhausted when the tour
// cannot cover the booking; in both cases no row is touched.  Bookings are
// never retried here.
func (s *Service) Book(ctx context.Context, tourID, userID string, numPeople int) (res Result, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.String("tour.id", tourID),
		attribute.Int("booking.num_people", numPeople),
	))
	defer func() {
		s.metrics.RecordBooking(resultLabel(err), res.SeatsTaken, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tourID, userID = strings.TrimSpace(tourID), strings.TrimSpace(userID)
	switch {
	case tourID == "":
		return Result{}, fmt.Errorf("%w: tour id is required", ErrInvalidBooking)
	case userID == "":
		return Result{}, fmt.Errorf("%w: user id is required", ErrInvalidBooking)
	case numPeople < 1:
		return Result{}, fmt.Errorf("%w: num_people must be at least 1", ErrInvalidBooking)
	}
	seats := s.SeatsFor(numPeople)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("begin booking tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ok, err := s.tours.DecrementSeatsTx(ctx, tx, tourID, seats)
	if err != nil {
		return Result{}, fmt.Errorf("decrement seats: %w", err)
	}
	if !ok {
		left, err := s.tours.AvailableSeatsTx(ctx, tx, tourID)
		if err != nil {
			return Result{}, err
		}
		s.log.Warn(ctx, "booking rejected: seats exhausted",
			logger.String("tour_id", tourID),
			logger.String("user_id", userID),
			logger.Int("requested", seats),
			logger.Int("available", left))
		return Result{}, fmt.Errorf("%w: %d requested, %d left", ErrSeatsExhausted, seats, left)
	}

	b := model.Booking{UserID: userID, TourID: tourID, NumPeople: numPeople}
	if err := s.bookings.CreateTx(ctx, tx, &b); err != nil {
		return Result{}, fmt.Errorf("insert booking: %w", err)
	}
	tour, err := s.tours.GetTx(ctx, tx, tourID)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("commit booking: %w", err)
	}
	committed = true

	res = Result{
		BookingID:      b.ID,
		TourID:         tourID,
		SeatsTaken:     seats,
		AvailableSeats: tour.AvailableSeats,
		CreatedAt:      b.CreatedAt,
	}
	span.SetAttributes(attribute.String("booking.id", b.ID), attribute.Int("tour.available_seats", tour.AvailableSeats))
	if tour.AvailableSeats == 0 {
		s.log.Info(ctx, "tour sold out", logger.String("tour_id", tourID))
	}
	s.publish(ctx, tour, b, seats)
	return res, nil
}

// publish is best effort: the booking is already committed, so a broker
// failure is logged and counted but never surfaced.
func (s *Service) publish(ctx context.Context, tour model.Tour, b model.Booking, seats int) {
	if s.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	err := s.publisher.PublishBookingCreated(pctx, queue.BookingCreatedEvent{
		BookingID:      b.ID,
		UserID:         b.UserID,
		TourID:         tour.ID,
		TourTitle:      tour.Title,
		TourDate:       tour.Date,
		TourTime:       tour.Time,
		NumPeople:      b.NumPeople,
		SeatsTaken:     seats,
		AvailableSeats: tour.AvailableSeats,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	})
	s.metrics.RecordPublish(err)
	if err != nil {
		s.log.Warn(ctx, "publish booking.created failed", logger.String("booking_id", b.ID), logger.Error(err))
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultBooked
	case errors.Is(err, ErrSeatsExhausted):
		return metrics.ResultExhausted
	case errors.Is(err, repository.ErrTourNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrInvalidBooking):
		return metrics.ResultInvalid
	}
	return metrics.ResultError
}
