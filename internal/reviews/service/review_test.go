package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Podhive/MVP/internal/events"
	reviewserrors "github.com/Podhive/MVP/internal/reviews/errors"
	"github.com/Podhive/MVP/pkg/config"
	mongotx "github.com/Podhive/MVP/pkg/db/mongo"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

const (
	studioID   = "64f1b2c3d4e5f6a7b8c9d0e1"
	reviewerID = "64f1b2c3d4e5f6a7b8c9d0e2"
)

type mockReviewRepository struct {
	createFunc   func(ctx context.Context, review *model.Review) error
	findByIDFunc func(ctx context.Context, id string) (*model.Review, error)
	byStudioFunc func(ctx context.Context, studioID string) ([]*model.Review, error)
	byPairFunc   func(ctx context.Context, studioID, reviewerID string) (*model.Review, error)
	updateFunc   func(ctx context.Context, id string, update *model.ReviewUpdate) error
	deleteFunc   func(ctx context.Context, id string) error
	summaryFunc  func(ctx context.Context, studioID string) (model.RatingSummary, error)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return m.createFunc(ctx, review)
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockReviewRepository) FindByStudio(ctx context.Context, studioID string) ([]*model.Review, error) {
	return m.byStudioFunc(ctx, studioID)
}

func (m *mockReviewRepository) FindByStudioAndReviewer(ctx context.Context, studioID, reviewerID string) (*model.Review, error) {
	return m.byPairFunc(ctx, studioID, reviewerID)
}

func (m *mockReviewRepository) Update(ctx context.Context, id string, update *model.ReviewUpdate) error {
	return m.updateFunc(ctx, id, update)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockReviewRepository) Summary(ctx context.Context, studioID string) (model.RatingSummary, error) {
	if m.summaryFunc == nil {
		return model.RatingSummary{}, nil
	}
	return m.summaryFunc(ctx, studioID)
}

type mockBookingRepository struct {
	pastFunc func(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error { return nil }

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindByStudios(ctx context.Context, studioIDs []string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) FindPastByCustomerAndStudio(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error) {
	return m.pastFunc(ctx, customerID, studioID, before)
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockStudioRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Studio, error)
	summaries    []model.RatingSummary
}

func (m *mockStudioRepository) Create(ctx context.Context, studio *model.Studio) error { return nil }

func (m *mockStudioRepository) FindByID(ctx context.Context, id string) (*model.Studio, error) {
	if m.findByIDFunc == nil {
		return &model.Studio{ID: id, Approved: true}, nil
	}
	return m.findByIDFunc(ctx, id)
}

func (m *mockStudioRepository) FindApproved(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return nil, nil
}

func (m *mockStudioRepository) FindPending(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return nil, nil
}

func (m *mockStudioRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error) {
	return nil, nil
}

func (m *mockStudioRepository) Update(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error) {
	return nil, nil
}

func (m *mockStudioRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockStudioRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	return nil
}

func (m *mockStudioRepository) UpdateRatingSummary(ctx context.Context, id string, summary model.RatingSummary) error {
	m.summaries = append(m.summaries, summary)
	return nil
}

func (m *mockStudioRepository) Count(ctx context.Context, approved bool) (int64, error) {
	return 0, nil
}

func (m *mockStudioRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
	}
}

func pastBooking() *model.Booking {
	return &model.Booking{
		Studio:   studioID,
		Customer: reviewerID,
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Hours:    []int{10},
	}
}

func newReview() *model.Review {
	return &model.Review{
		Studio:      studioID,
		Reviewer:    reviewerID,
		Rating:      5,
		Description: "Great acoustics and friendly staff.",
	}
}

func newService(reviews *mockReviewRepository, bookings *mockBookingRepository, studios *mockStudioRepository) *reviewService {
	svc := NewReviewService(reviews, bookings, studios, events.NoopPublisher{}, testConfig()).(*reviewService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreateRequiresPastBooking(t *testing.T) {
	reviews := &mockReviewRepository{
		byPairFunc: func(ctx context.Context, studioID, reviewerID string) (*model.Review, error) {
			return nil, reviewserrors.ErrNotFound
		},
	}
	bookings := &mockBookingRepository{
		pastFunc: func(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error) {
			return nil, nil
		},
	}

	err := newService(reviews, bookings, &mockStudioRepository{}).Create(context.Background(), newReview())

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if appErr.Message != "You can only review studios you have a past booking with." {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestCreateRejectsSecondReview(t *testing.T) {
	reviews := &mockReviewRepository{
		byPairFunc: func(ctx context.Context, studioID, reviewerID string) (*model.Review, error) {
			return newReview(), nil
		},
	}
	bookings := &mockBookingRepository{
		pastFunc: func(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error) {
			return []*model.Booking{pastBooking()}, nil
		},
	}

	err := newService(reviews, bookings, &mockStudioRepository{}).Create(context.Background(), newReview())

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if appErr.Message != "You have already reviewed this studio" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}
}

func TestCreateRefreshesRatingSummary(t *testing.T) {
	reviews := &mockReviewRepository{
		byPairFunc: func(ctx context.Context, studioID, reviewerID string) (*model.Review, error) {
			return nil, reviewserrors.ErrNotFound
		},
		createFunc: func(ctx context.Context, review *model.Review) error {
			review.ID = "64f1b2c3d4e5f6a7b8c9d0f0"
			return nil
		},
		summaryFunc: func(ctx context.Context, studioID string) (model.RatingSummary, error) {
			return model.RatingSummary{Average: 4.5, Count: 2}, nil
		},
	}
	bookings := &mockBookingRepository{
		pastFunc: func(ctx context.Context, customerID, studioID string, before time.Time) ([]*model.Booking, error) {
			return []*model.Booking{pastBooking()}, nil
		},
	}
	studios := &mockStudioRepository{}

	if err := newService(reviews, bookings, studios).Create(context.Background(), newReview()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(studios.summaries) != 1 {
		t.Fatalf("expected 1 summary update, got %d", len(studios.summaries))
	}
	if studios.summaries[0].Average != 4.5 || studios.summaries[0].Count != 2 {
		t.Errorf("summary = %+v, want average 4.5 count 2", studios.summaries[0])
	}
}

func TestUpdateRejectsOtherReviewer(t *testing.T) {
	reviews := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			r := newReview()
			r.ID = id
			return r, nil
		},
	}

	rating := 3
	err := newService(reviews, &mockBookingRepository{}, &mockStudioRepository{}).Update(
		context.Background(), "64f1b2c3d4e5f6a7b8c9d0f0", "64f1b2c3d4e5f6a7b8c9d0ff",
		&model.ReviewUpdate{Rating: &rating})

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestDeleteAllowsAdmin(t *testing.T) {
	deleted := false
	reviews := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			r := newReview()
			r.ID = id
			return r, nil
		},
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	err := newService(reviews, &mockBookingRepository{}, &mockStudioRepository{}).Delete(
		context.Background(), "64f1b2c3d4e5f6a7b8c9d0f0", "64f1b2c3d4e5f6a7b8c9d0ff", model.UserTypeAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected review to be deleted")
	}
}
