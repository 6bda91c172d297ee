package service

import (
	"context"
	"errors"

	availabilityservice "github.com/Podhive/MVP/internal/availability/service"
	"github.com/Podhive/MVP/internal/events"
	studioserrors "github.com/Podhive/MVP/internal/studios/errors"
	"github.com/Podhive/MVP/internal/studios/repository"
	"github.com/Podhive/MVP/internal/studios/validator"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/sanitizer"
)

// StudioWithAvailability is the public listing shape: the studio document
// plus its bookable days.
type StudioWithAvailability struct {
	*model.Studio
	Availability []model.DayAvailability `json:"availability"`
}

type StudioService interface {
	Create(ctx context.Context, studio *model.Studio, days []model.DayInput) error
	GetByID(ctx context.Context, id string) (*StudioWithAvailability, error)
	ListApproved(ctx context.Context, limit int, offset int64) ([]*StudioWithAvailability, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error)
	Update(ctx context.Context, id string, ownerID string, studio *model.Studio, days []model.DayInput) error
	Delete(ctx context.Context, id string, ownerID string) error
}

type studioService struct {
	repo         repository.StudioRepository
	availability availabilityservice.AvailabilityService
	validator    *validator.StudioValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewStudioService(
	repo repository.StudioRepository,
	availability availabilityservice.AvailabilityService,
	validator *validator.StudioValidator,
	publisher events.Publisher,
	cfg *config.Config,
) StudioService {
	return &studioService{
		repo:         repo,
		availability: availability,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *studioService) Create(ctx context.Context, studio *model.Studio, days []model.DayInput) error {
	s.sanitize(studio)

	// New studios always wait for admin approval.
	studio.Approved = false
	studio.RatingSummary = model.RatingSummary{}

	if err := s.validator.Validate(studio); err != nil {
		s.cfg.Log.Warn("Studio validation failed", "name", studio.Name, "owner", studio.Owner, "error", err)
		return apperrors.Validation("Studio validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, studio); err != nil {
		s.cfg.Log.Error("Failed to create studio", "name", studio.Name, "owner", studio.Owner, "error", err)
		return apperrors.Internal("Failed to create studio", err)
	}

	if len(days) > 0 {
		if err := s.availability.SeedDays(ctx, studio.ID, days); err != nil {
			return err
		}
	}

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeStudioCreated,
		Key:  studio.ID,
		Payload: map[string]any{
			"studioId": studio.ID,
			"name":     studio.Name,
			"owner":    studio.Owner,
		},
	})

	s.cfg.Log.Info("Studio created", "id", studio.ID, "name", studio.Name, "owner", studio.Owner)
	return nil
}

func (s *studioService) GetByID(ctx context.Context, id string) (*StudioWithAvailability, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Studio ID cannot be empty")
	}

	studio, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(id, err)
	}

	days, err := s.availability.Query(ctx, studio.ID)
	if err != nil {
		return nil, err
	}

	return &StudioWithAvailability{Studio: studio, Availability: days}, nil
}

func (s *studioService) ListApproved(ctx context.Context, limit int, offset int64) ([]*StudioWithAvailability, error) {
	studios, err := s.repo.FindApproved(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list studios", "error", err)
		return nil, apperrors.Internal("Failed to list studios", err)
	}

	result := make([]*StudioWithAvailability, 0, len(studios))
	for _, studio := range studios {
		days, err := s.availability.Query(ctx, studio.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &StudioWithAvailability{Studio: studio, Availability: days})
	}

	return result, nil
}

func (s *studioService) ListByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	studios, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list studios by owner", "owner", ownerID, "error", err)
		return nil, apperrors.Internal("Failed to list studios", err)
	}

	return studios, nil
}

func (s *studioService) Update(ctx context.Context, id string, ownerID string, studio *model.Studio, days []model.DayInput) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(id, err)
	}

	if existing.Owner != ownerID {
		return apperrors.Forbidden("You can only update your own studios")
	}

	s.sanitize(studio)

	// Owner and approval state are not updatable through this path.
	studio.Owner = existing.Owner
	studio.Approved = existing.Approved
	studio.RatingSummary = existing.RatingSummary
	studio.ID = existing.ID

	if err := s.validator.Validate(studio); err != nil {
		s.cfg.Log.Warn("Studio validation failed", "id", id, "error", err)
		return apperrors.Validation("Studio validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, studio); err != nil {
		return s.translateRepoError(id, err)
	}

	if len(days) > 0 {
		if err := s.availability.UpsertDays(ctx, id, days); err != nil {
			return err
		}
	}

	s.cfg.Log.Info("Studio updated", "id", id, "owner", ownerID)
	return nil
}

func (s *studioService) Delete(ctx context.Context, id string, ownerID string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(id, err)
	}

	if existing.Owner != ownerID {
		return apperrors.Forbidden("You can only delete your own studios")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(id, err)
	}

	if err := s.availability.DeleteForStudio(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to remove availability after studio delete", "id", id, "error", err)
	}

	s.cfg.Log.Info("Studio deleted", "id", id, "owner", ownerID)
	return nil
}

func (s *studioService) translateRepoError(id string, err error) error {
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

// sanitize cleans free-text fields. Package and add-on keys are left alone
// so booking requests can match them byte for byte.
func (s *studioService) sanitize(studio *model.Studio) {
	studio.Name = sanitizer.CleanText(studio.Name)
	studio.Description = sanitizer.CleanText(studio.Description)
	studio.Rules = sanitizer.CleanText(studio.Rules)
	studio.InstagramUsername = sanitizer.CleanText(studio.InstagramUsername)
	studio.Location.FullAddress = sanitizer.CleanText(studio.Location.FullAddress)
	studio.Location.City = sanitizer.CleanText(studio.Location.City)
	studio.Location.State = sanitizer.CleanText(studio.Location.State)
	studio.Equipments = sanitizer.CleanSlice(studio.Equipments, sanitizer.CleanText)
	studio.Amenities = sanitizer.CleanSlice(studio.Amenities, sanitizer.CleanText)
}
