package service

import (
	"context"
	"errors"
	"time"

	bookingrepository "github.com/Podhive/MVP/internal/bookings/repository"
	"github.com/Podhive/MVP/internal/events"
	reviewserrors "github.com/Podhive/MVP/internal/reviews/errors"
	"github.com/Podhive/MVP/internal/reviews/repository"
	studiorepository "github.com/Podhive/MVP/internal/studios/repository"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
	"github.com/Podhive/MVP/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

type ReviewService interface {
	Create(ctx context.Context, review *model.Review) error
	ListByStudio(ctx context.Context, studioID string) ([]*model.Review, error)
	Update(ctx context.Context, id, reviewerID string, update *model.ReviewUpdate) error
	Delete(ctx context.Context, id, requesterID, requesterRole string) error
}

type reviewService struct {
	repo      repository.ReviewRepository
	bookings  bookingrepository.BookingRepository
	studios   studiorepository.StudioRepository
	validate  *validator.Validate
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewReviewService(
	repo repository.ReviewRepository,
	bookings bookingrepository.BookingRepository,
	studios studiorepository.StudioRepository,
	publisher events.Publisher,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		repo:      repo,
		bookings:  bookings,
		studios:   studios,
		validate:  validator.New(),
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *reviewService) Create(ctx context.Context, review *model.Review) error {
	review.Description = sanitizer.CleanText(review.Description)

	if err := s.validate.Struct(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "studio", review.Studio, "reviewer", review.Reviewer, "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.studios.FindByID(ctx, review.Studio); err != nil {
		return apperrors.NotFoundWithID("Studio", review.Studio)
	}

	// One review per reviewer and studio.
	_, err := s.repo.FindByStudioAndReviewer(ctx, review.Studio, review.Reviewer)
	if err == nil {
		return apperrors.InvalidInput("You have already reviewed this studio")
	}
	if !errors.Is(err, reviewserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check for existing review", "studio", review.Studio, "reviewer", review.Reviewer, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	// Only customers with a booking strictly in the past may review.
	today := model.NormalizeDate(s.now().UTC())
	past, err := s.bookings.FindPastByCustomerAndStudio(ctx, review.Reviewer, review.Studio, today)
	if err != nil {
		s.cfg.Log.Error("Failed to check booking history", "studio", review.Studio, "reviewer", review.Reviewer, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}
	if len(past) == 0 {
		return apperrors.Forbidden("You can only review studios you have a past booking with.")
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicate) {
			return apperrors.InvalidInput("You have already reviewed this studio")
		}
		s.cfg.Log.Error("Failed to create review", "studio", review.Studio, "reviewer", review.Reviewer, "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.refreshRatingSummary(ctx, review.Studio)

	s.publisher.Publish(ctx, events.Event{
		Type: events.TypeReviewCreated,
		Key:  review.Studio,
		Payload: map[string]any{
			"reviewId": review.ID,
			"studioId": review.Studio,
			"reviewer": review.Reviewer,
			"rating":   review.Rating,
		},
	})

	s.cfg.Log.Info("Review created", "id", review.ID, "studio", review.Studio, "rating", review.Rating)
	return nil
}

func (s *reviewService) ListByStudio(ctx context.Context, studioID string) ([]*model.Review, error) {
	if studioID == "" {
		return nil, apperrors.InvalidInput("Studio ID cannot be empty")
	}

	reviews, err := s.repo.FindByStudio(ctx, studioID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews", "studio", studioID, "error", err)
		return nil, apperrors.Internal("Failed to list reviews", err)
	}

	return reviews, nil
}

func (s *reviewService) Update(ctx context.Context, id, reviewerID string, update *model.ReviewUpdate) error {
	if err := s.validate.Struct(update); err != nil {
		return apperrors.Validation("Review validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	update.Description = sanitizer.CleanText(update.Description)

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(id, err)
	}

	if review.Reviewer != reviewerID {
		return apperrors.Forbidden("You can only update your own reviews")
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		return s.translateRepoError(id, err)
	}

	s.refreshRatingSummary(ctx, review.Studio)

	s.cfg.Log.Info("Review updated", "id", id, "studio", review.Studio)
	return nil
}

func (s *reviewService) Delete(ctx context.Context, id, requesterID, requesterRole string) error {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(id, err)
	}

	if review.Reviewer != requesterID && requesterRole != model.UserTypeAdmin {
		return apperrors.Forbidden("You can only delete your own reviews")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(id, err)
	}

	s.refreshRatingSummary(ctx, review.Studio)

	s.cfg.Log.Info("Review deleted", "id", id, "studio", review.Studio, "requester", requesterID)
	return nil
}

// refreshRatingSummary recomputes the studio's denormalized rating. A
// failure leaves the summary stale until the next review write.
func (s *reviewService) refreshRatingSummary(ctx context.Context, studioID string) {
	summary, err := s.repo.Summary(ctx, studioID)
	if err != nil {
		s.cfg.Log.Error("Failed to compute rating summary", "studio", studioID, "error", err)
		return
	}

	if err := s.studios.UpdateRatingSummary(ctx, studioID, summary); err != nil {
		s.cfg.Log.Error("Failed to store rating summary", "studio", studioID, "error", err)
	}
}

func (s *reviewService) translateRepoError(id string, err error) error {
	switch {
	case errors.Is(err, reviewserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Review", id)
	case errors.Is(err, reviewserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid review ID: " + id)
	default:
		s.cfg.Log.Error("Review repository error", "id", id, "error", err)
		return apperrors.Internal("Review operation failed", err)
	}
}
