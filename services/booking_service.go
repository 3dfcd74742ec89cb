package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resort-backend/models"
	"resort-backend/repository"
)

const (
	dateLayout = "2006-01-02"

	// CancellationNotice is how far ahead of check-in an owner may still cancel.
	CancellationNotice = 24 * time.Hour
)

type CreateBookingInput struct {
	OfferingID     uint
	Name           string
	Phone          string
	Email          string
	Guests         int
	CheckIn        string
	CheckOut       string
	SpecialRequest string
}

// AdminBookingFilter narrows ListAll. Empty fields do not filter; Status "all"
// or an unknown status is treated as empty.
type AdminBookingFilter struct {
	Status         string
	OfferingSearch string
}

// Scope selects how GetByID treats ownership.
type Scope int

const (
	// ScopeOwner only finds bookings owned by the acting user.
	ScopeOwner Scope = iota
	// ScopeAdmin finds any booking.
	ScopeAdmin
)

// BookingService creates and manages reservations. The availability check in
// Create is serialized per offering by the repository, so two overlapping
// creates cannot both succeed.
type BookingService struct {
	bookings  repository.BookingRepository
	offerings repository.OfferingRepository
	log       *slog.Logger

	Now func() time.Time
}

func NewBookingService(
	bookings repository.BookingRepository,
	offerings repository.OfferingRepository,
	log *slog.Logger,
) *BookingService {
	if log == nil {
		log = slog.Default()
	}
	return &BookingService{
		bookings:  bookings,
		offerings: offerings,
		log:       log,
		Now:       time.Now,
	}
}

// parseDate accepts YYYY-MM-DD (read as UTC midnight) or RFC 3339.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *BookingService) Create(ctx context.Context, in CreateBookingInput, actor *models.User) (*models.Booking, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)

	if in.OfferingID == 0 || name == "" || phone == "" || email == "" || in.Guests == 0 ||
		strings.TrimSpace(in.CheckIn) == "" || strings.TrimSpace(in.CheckOut) == "" {
		return nil, newError(ErrValidation, "Offering, name, phone, email, guests, check-in, and check-out are required")
	}
	if in.Guests < 1 {
		return nil, newError(ErrValidation, "Guests must be at least 1")
	}

	checkIn, err := parseDate(in.CheckIn)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid check-in date")
	}
	checkOut, err := parseDate(in.CheckOut)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid check-out date")
	}

	// Compare calendar days in the check-in's own zone; time of day is ignored.
	today := startOfDay(s.Now().In(checkIn.Location()))
	if startOfDay(checkIn).Before(today) {
		return nil, newError(ErrValidation, "Check-in date cannot be in the past")
	}
	if !checkOut.After(checkIn) {
		return nil, newError(ErrValidation, "Check-out date must be after check-in date")
	}

	if _, err := s.offerings.GetByID(ctx, in.OfferingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Offering not found")
		}
		return nil, fmt.Errorf("check offering: %w", err)
	}

	booking := &models.Booking{
		OfferingID:     in.OfferingID,
		Name:           name,
		Phone:          phone,
		Email:          email,
		Guests:         in.Guests,
		CheckIn:        checkIn.UTC(),
		CheckOut:       checkOut.UTC(),
		SpecialRequest: strings.TrimSpace(in.SpecialRequest),
		Status:         models.BookingStatusPending,
	}
	if actor != nil {
		uid := actor.ID
		booking.UserID = &uid
	}

	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, newError(ErrConflict, "This offering is already booked for the selected dates")
		case errors.Is(err, repository.ErrNotFound):
			return nil, newError(ErrNotFound, "Offering not found")
		default:
			return nil, fmt.Errorf("create booking: %w", err)
		}
	}

	s.log.Info("booking created",
		slog.Uint64("booking_id", uint64(booking.ID)),
		slog.String("reference", booking.ReferenceCode),
		slog.Uint64("offering_id", uint64(booking.OfferingID)),
		slog.Time("check_in", booking.CheckIn),
		slog.Time("check_out", booking.CheckOut),
	)

	return s.load(ctx, booking.ID)
}

func (s *BookingService) load(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Booking not found")
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// ListForUser returns the actor's bookings, newest first. An unknown status is ignored.
func (s *BookingService) ListForUser(ctx context.Context, actor *models.User, status string) ([]models.Booking, error) {
	if actor == nil {
		return nil, newError(ErrUnauthenticated, "Unauthorized user")
	}

	uid := actor.ID
	filter := repository.BookingFilter{UserID: &uid}
	if st, ok := models.ParseBookingStatus(status); ok {
		filter.Status = &st
	}

	list, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings for user %d: %w", uid, err)
	}
	return list, nil
}

// ListAll returns every booking matching filter, newest first. The offering
// search resolves matching offering ids first; no match yields an empty list.
func (s *BookingService) ListAll(ctx context.Context, filter AdminBookingFilter) ([]models.Booking, error) {
	var q repository.BookingFilter
	if st, ok := models.ParseBookingStatus(filter.Status); ok {
		q.Status = &st
	}

	if search := strings.TrimSpace(filter.OfferingSearch); search != "" {
		ids, err := s.offerings.IDsMatchingName(ctx, search)
		if err != nil {
			return nil, fmt.Errorf("search offerings: %w", err)
		}
		if ids == nil {
			ids = []uint{}
		}
		q.OfferingIDs = ids
	}

	list, err := s.bookings.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return list, nil
}

// GetByID with ScopeOwner reports bookings of other users as not found.
func (s *BookingService) GetByID(ctx context.Context, id uint, actor *models.User, scope Scope) (*models.Booking, error) {
	if scope == ScopeAdmin {
		return s.load(ctx, id)
	}
	if actor == nil {
		return nil, newError(ErrUnauthenticated, "User not authenticated")
	}

	b, err := s.bookings.GetByIDForUser(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Booking not found")
		}
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// UpdateStatus overwrites the status without consulting the cancellation rules.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Booking, error) {
	st, ok := models.ParseBookingStatus(status)
	if !ok {
		return nil, newError(ErrValidation, "Invalid status")
	}

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, id, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Booking not found")
		}
		return nil, fmt.Errorf("update booking %d status: %w", id, err)
	}

	s.log.Info("booking status updated",
		slog.Uint64("booking_id", uint64(id)),
		slog.String("status", string(st)),
	)
	return s.load(ctx, id)
}

// Cancel lets an owner cancel a pending or confirmed booking while check-in is
// at least CancellationNotice away.
func (s *BookingService) Cancel(ctx context.Context, id uint, actor *models.User) (*models.Booking, error) {
	b, err := s.GetByID(ctx, id, actor, ScopeOwner)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case models.BookingStatusCancelled:
		return nil, newError(ErrAlreadyCancelled, "Booking is already cancelled")
	case models.BookingStatusPending, models.BookingStatusConfirmed:
	default:
		return nil, newError(ErrValidation, "Booking cannot be cancelled in status %q", b.Status)
	}

	if b.CheckIn.Sub(s.Now()) < CancellationNotice {
		return nil, newError(ErrTooLateToCancel, "Bookings can only be cancelled at least 24 hours before check-in")
	}

	if err := s.bookings.UpdateStatus(ctx, id, models.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}

	s.log.Info("booking cancelled",
		slog.Uint64("booking_id", uint64(id)),
		slog.Uint64("user_id", uint64(actor.ID)),
	)
	return s.load(ctx, id)
}
