package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	availerrors "github.com/Podhive/MVP/internal/availability/errors"
	availrepository "github.com/Podhive/MVP/internal/availability/repository"
	bookingserrors "github.com/Podhive/MVP/internal/bookings/errors"
	"github.com/Podhive/MVP/internal/bookings/repository"
	"github.com/Podhive/MVP/internal/bookings/validator"
	"github.com/Podhive/MVP/internal/events"
	"github.com/Podhive/MVP/internal/notify"
	studiorepository "github.com/Podhive/MVP/internal/studios/repository"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
)

// UserDirectory resolves user documents for notification emails.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	Cancel(ctx context.Context, id string, requesterID, requesterRole string) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error)
	ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.SlotLockRepository
	avail     availrepository.AvailabilityRepository
	studios   studiorepository.StudioRepository
	users     UserDirectory
	validator *validator.BookingValidator
	mailer    notify.Mailer
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.SlotLockRepository,
	avail availrepository.AvailabilityRepository,
	studios studiorepository.StudioRepository,
	users UserDirectory,
	bookingValidator *validator.BookingValidator,
	mailer notify.Mailer,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		avail:     avail,
		studios:   studios,
		users:     users,
		validator: bookingValidator,
		mailer:    mailer,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// slotLockID names the advisory lock for one studio and date.
func slotLockID(studioID string, date time.Time) string {
	return fmt.Sprintf("slotlock:%s:%s", studioID, date.Format(model.DateLayout))
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	booking.Date = model.NormalizeDate(booking.Date)
	booking.PaymentStatus = model.PaymentPending
	sort.Ints(booking.Hours)

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "studio", booking.Studio, "customer", booking.Customer, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	today := model.NormalizeDate(s.now().UTC())
	if booking.Date.Before(today) {
		return apperrors.InvalidInput("Cannot book a date in the past")
	}

	studio, err := s.studios.FindByID(ctx, booking.Studio)
	if err != nil || !studio.Approved {
		return apperrors.InvalidInput("Studio not found or not approved")
	}

	if len(booking.Hours) < studio.MinimumDurationHours {
		return apperrors.InvalidInput(fmt.Sprintf(
			"Minimum booking duration for this studio is %d hours", studio.MinimumDurationHours))
	}

	pkg, ok := studio.FindPackage(booking.PackageKey)
	if !ok {
		return apperrors.InvalidInput("Invalid package selection")
	}

	total := pkg.Price * float64(len(booking.Hours))
	for _, sel := range booking.AddOns {
		addOn, ok := studio.FindAddOn(sel.Key)
		if !ok {
			return apperrors.InvalidInput("Invalid add-on: " + sel.Key)
		}
		if sel.Quantity < 1 || sel.Quantity > addOn.MaxQuantity {
			return apperrors.InvalidInput(fmt.Sprintf(
				"Quantity for %s must be between 1 and %d", sel.Key, addOn.MaxQuantity))
		}
		total += addOn.Price * float64(sel.Quantity)
	}
	booking.TotalPrice = total

	// Serialize concurrent attempts on the same studio and date. The lock
	// expires via TTL if we crash before releasing it.
	lockID := slotLockID(booking.Studio, booking.Date)
	acquired, err := s.locks.Acquire(ctx, lockID)
	if err != nil {
		s.cfg.Log.Error("Failed to acquire slot lock", "lock_id", lockID, "error", err)
		return apperrors.Internal("Failed to process booking", err)
	}
	if !acquired {
		return apperrors.Conflict("Another booking for this studio and date is in progress. Please retry.")
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), lockID); err != nil {
			s.cfg.Log.Error("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		day, err := s.avail.FindByStudioAndDate(sessCtx, booking.Studio, booking.Date)
		if err != nil {
			if errors.Is(err, availerrors.ErrNotFound) {
				return apperrors.InvalidInput("No availability for this date.")
			}
			return fmt.Errorf("failed to load availability: %w", err)
		}

		if !hoursOpen(day, booking.Hours) {
			return apperrors.InvalidInput("One or more of the selected hours are not available.")
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		modified, err := s.avail.CloseSlots(sessCtx, booking.Studio, booking.Date, booking.Hours)
		if err != nil {
			return fmt.Errorf("failed to close slots: %w", err)
		}
		if modified == 0 {
			return apperrors.InvalidInput("One or more of the selected hours are not available.")
		}

		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		s.cfg.Log.Error("Booking transaction failed",
			"studio", booking.Studio,
			"customer", booking.Customer,
			"date", booking.Date.Format(model.DateLayout),
			"error", err,
		)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"studio", booking.Studio,
		"customer", booking.Customer,
		"date", booking.Date.Format(model.DateLayout),
		"hours", booking.Hours,
		"total_price", booking.TotalPrice,
	)

	s.notifyBookingCreated(ctx, booking, studio)

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeBookingCreated,
		Key:  booking.Studio,
		Payload: map[string]any{
			"bookingId":  booking.ID,
			"studioId":   booking.Studio,
			"customerId": booking.Customer,
			"date":       booking.Date.Format(model.DateLayout),
			"hours":      booking.Hours,
			"totalPrice": booking.TotalPrice,
		},
	})

	return nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, requesterID, requesterRole string) error {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(id, err)
	}

	if !s.mayCancel(ctx, booking, requesterID, requesterRole) {
		return apperrors.Forbidden("You cannot cancel this booking")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Reopen the booked hours. A reaped day matches nothing; that is
		// fine, there is nothing left to free.
		reopened, err := s.avail.OpenSlots(sessCtx, booking.Studio, booking.Date, booking.Hours)
		if err != nil {
			return err
		}
		if reopened == 0 {
			s.cfg.Log.Debug("No availability day to reopen on cancellation", "booking", id)
		}

		return s.repo.Delete(sessCtx, id)
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) || errors.Is(err, bookingserrors.ErrInvalidID) {
			return s.translateRepoError(id, err)
		}
		s.cfg.Log.Error("Failed to cancel booking", "booking", id, "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "requester", requesterID, "role", requesterRole)

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeBookingCancelled,
		Key:  booking.Studio,
		Payload: map[string]any{
			"bookingId":  id,
			"studioId":   booking.Studio,
			"customerId": booking.Customer,
			"date":       booking.Date.Format(model.DateLayout),
		},
	})

	return nil
}

func (s *bookingService) mayCancel(ctx context.Context, booking *model.Booking, requesterID, requesterRole string) bool {
	if requesterRole == model.UserTypeAdmin {
		return true
	}
	if booking.Customer == requesterID {
		return true
	}

	studio, err := s.studios.FindByID(ctx, booking.Studio)
	if err != nil {
		return false
	}
	return studio.Owner == requesterID
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(id, err)
	}

	return booking, nil
}

func (s *bookingService) ListByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	bookings, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by customer", "customer", customerID, "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Booking, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	studios, err := s.studios.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve owner studios", "owner", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	ids := make([]string, 0, len(studios))
	for _, studio := range studios {
		ids = append(ids, studio.ID)
	}

	bookings, err := s.repo.FindByStudios(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by studios", "owner", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}

	return bookings, nil
}

// notifyBookingCreated sends the confirmation and owner notification
// emails. Failures are logged and never fail the booking.
func (s *bookingService) notifyBookingCreated(ctx context.Context, booking *model.Booking, studio *model.Studio) {
	customer, err := s.users.FindByID(ctx, booking.Customer)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve customer for booking emails", "booking", booking.ID, "error", err)
		return
	}
	owner, err := s.users.FindByID(ctx, studio.Owner)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve owner for booking emails", "booking", booking.ID, "error", err)
		return
	}

	details := notify.BookingDetails{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		OwnerName:     owner.Name,
		OwnerEmail:    owner.Email,
		OwnerPhone:    owner.Phone,
		StudioName:    studio.Name,
		StudioAddress: studio.Location.FullAddress,
		Date:          booking.Date,
		Hours:         booking.Hours,
		TotalPrice:    booking.TotalPrice,
	}

	if err := s.mailer.BookingConfirmation(ctx, customer.Email, details); err != nil {
		s.cfg.Log.Error("Failed to send booking confirmation", "booking", booking.ID, "error", err)
	}
	if err := s.mailer.BookingNotification(ctx, owner.Email, details); err != nil {
		s.cfg.Log.Error("Failed to send booking notification", "booking", booking.ID, "error", err)
	}
}

func (s *bookingService) translateRepoError(id string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID: " + id)
	default:
		s.cfg.Log.Error("Booking repository error", "id", id, "error", err)
		return apperrors.Internal("Booking operation failed", err)
	}
}

func hoursOpen(day *model.AvailabilityDay, hours []int) bool {
	open := make(map[int]bool, len(day.Slots))
	for _, slot := range day.Slots {
		if slot.IsAvailable {
			open[slot.Hour] = true
		}
	}
	for _, h := range hours {
		if !open[h] {
			return false
		}
	}
	return true
}
