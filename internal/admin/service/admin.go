package service

import (
	"context"
	"errors"

	availabilityservice "github.com/Podhive/MVP/internal/availability/service"
	bookingservice "github.com/Podhive/MVP/internal/bookings/service"
	"github.com/Podhive/MVP/internal/events"
	"github.com/Podhive/MVP/internal/notify"
	studioserrors "github.com/Podhive/MVP/internal/studios/errors"
	studiorepository "github.com/Podhive/MVP/internal/studios/repository"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
)

// AdminService is the moderation surface: studio approval and denial plus
// platform-wide booking oversight.
type AdminService interface {
	ListPendingStudios(ctx context.Context, limit int, offset int64) ([]*model.Studio, error)
	ApproveStudio(ctx context.Context, id string) error
	DenyStudio(ctx context.Context, id string) error
	ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	CancelBooking(ctx context.Context, id, adminID string) error
}

type adminService struct {
	studios      studiorepository.StudioRepository
	availability availabilityservice.AvailabilityService
	bookings     bookingservice.BookingService
	users        bookingservice.UserDirectory
	mailer       notify.Mailer
	publisher    events.Publisher
	cfg          *config.Config
}

func NewAdminService(
	studios studiorepository.StudioRepository,
	availability availabilityservice.AvailabilityService,
	bookings bookingservice.BookingService,
	users bookingservice.UserDirectory,
	mailer notify.Mailer,
	publisher events.Publisher,
	cfg *config.Config,
) AdminService {
	return &adminService{
		studios:      studios,
		availability: availability,
		bookings:     bookings,
		users:        users,
		mailer:       mailer,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *adminService) ListPendingStudios(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	studios, err := s.studios.FindPending(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list pending studios", "error", err)
		return nil, apperrors.Internal("Failed to list pending studios", err)
	}

	return studios, nil
}

func (s *adminService) ApproveStudio(ctx context.Context, id string) error {
	studio, err := s.studios.FindByID(ctx, id)
	if err != nil {
		return s.translateStudioError(id, err)
	}

	if studio.Approved {
		return apperrors.Conflict("Studio is already approved")
	}

	if err := s.studios.SetApproved(ctx, id, true); err != nil {
		return s.translateStudioError(id, err)
	}

	s.notifyApproval(ctx, studio)

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeStudioApproved,
		Key:  id,
		Payload: map[string]any{
			"studioId": id,
			"name":     studio.Name,
			"owner":    studio.Owner,
		},
	})

	s.cfg.Log.Info("Studio approved", "id", id, "name", studio.Name)
	return nil
}

// DenyStudio removes the listing and its availability outright.
func (s *adminService) DenyStudio(ctx context.Context, id string) error {
	studio, err := s.studios.FindByID(ctx, id)
	if err != nil {
		return s.translateStudioError(id, err)
	}

	if err := s.studios.Delete(ctx, id); err != nil {
		return s.translateStudioError(id, err)
	}

	if err := s.availability.DeleteForStudio(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to remove availability for denied studio", "id", id, "error", err)
	}

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeStudioDenied,
		Key:  id,
		Payload: map[string]any{
			"studioId": id,
			"name":     studio.Name,
			"owner":    studio.Owner,
		},
	})

	s.cfg.Log.Info("Studio denied", "id", id, "name", studio.Name)
	return nil
}

func (s *adminService) ListBookings(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return s.bookings.ListAll(ctx, limit, offset)
}

func (s *adminService) CancelBooking(ctx context.Context, id, adminID string) error {
	return s.bookings.Cancel(ctx, id, adminID, model.UserTypeAdmin)
}

func (s *adminService) notifyApproval(ctx context.Context, studio *model.Studio) {
	owner, err := s.users.FindByID(ctx, studio.Owner)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve owner for approval email", "studio", studio.ID, "error", err)
		return
	}

	if err := s.mailer.StudioApproval(ctx, owner.Email, studio.Name); err != nil {
		s.cfg.Log.Error("Failed to send approval email", "studio", studio.ID, "error", err)
	}
}

func (s *adminService) translateStudioError(id string, err error) error {
	switch {
	case errors.Is(err, studioserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Studio", id)
	case errors.Is(err, studioserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid studio ID: " + id)
	default:
		s.cfg.Log.Error("Studio repository error", "id", id, "error", err)
		return apperrors.Internal("Studio operation failed", err)
	}
}
