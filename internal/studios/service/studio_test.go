package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Podhive/MVP/internal/events"
	studioserrors "github.com/Podhive/MVP/internal/studios/errors"
	"github.com/Podhive/MVP/internal/studios/repository"
	"github.com/Podhive/MVP/internal/studios/validator"
	"github.com/Podhive/MVP/pkg/config"
	mongotx "github.com/Podhive/MVP/pkg/db/mongo"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/logger"
	"github.com/Podhive/MVP/pkg/model"
)

type mockStudioRepository struct {
	createFunc              func(ctx context.Context, studio *model.Studio) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Studio, error)
	findApprovedFunc        func(ctx context.Context, limit int, offset int64) ([]*model.Studio, error)
	findPendingFunc         func(ctx context.Context, limit int, offset int64) ([]*model.Studio, error)
	findByOwnerFunc         func(ctx context.Context, ownerID string) ([]*model.Studio, error)
	updateFunc              func(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error)
	deleteFunc              func(ctx context.Context, id string) error
	setApprovedFunc         func(ctx context.Context, id string, approved bool) error
	updateRatingSummaryFunc func(ctx context.Context, id string, summary model.RatingSummary) error
	countFunc               func(ctx context.Context, approved bool) (int64, error)
}

func (m *mockStudioRepository) Create(ctx context.Context, studio *model.Studio) error {
	return m.createFunc(ctx, studio)
}

func (m *mockStudioRepository) FindByID(ctx context.Context, id string) (*model.Studio, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockStudioRepository) FindApproved(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return m.findApprovedFunc(ctx, limit, offset)
}

func (m *mockStudioRepository) FindPending(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return m.findPendingFunc(ctx, limit, offset)
}

func (m *mockStudioRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error) {
	return m.findByOwnerFunc(ctx, ownerID)
}

func (m *mockStudioRepository) Update(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error) {
	return m.updateFunc(ctx, id, studio)
}

func (m *mockStudioRepository) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockStudioRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	return m.setApprovedFunc(ctx, id, approved)
}

func (m *mockStudioRepository) UpdateRatingSummary(ctx context.Context, id string, summary model.RatingSummary) error {
	return m.updateRatingSummaryFunc(ctx, id, summary)
}

func (m *mockStudioRepository) Count(ctx context.Context, approved bool) (int64, error) {
	return m.countFunc(ctx, approved)
}

func (m *mockStudioRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

var _ repository.StudioRepository = (*mockStudioRepository)(nil)

type mockAvailabilityService struct {
	queryFunc      func(ctx context.Context, studioID string) ([]model.DayAvailability, error)
	seedDaysFunc   func(ctx context.Context, studioID string, days []model.DayInput) error
	upsertDaysFunc func(ctx context.Context, studioID string, days []model.DayInput) error
	deleteFunc     func(ctx context.Context, studioID string) error
}

func (m *mockAvailabilityService) Query(ctx context.Context, studioID string) ([]model.DayAvailability, error) {
	if m.queryFunc == nil {
		return nil, nil
	}
	return m.queryFunc(ctx, studioID)
}

func (m *mockAvailabilityService) SeedDays(ctx context.Context, studioID string, days []model.DayInput) error {
	return m.seedDaysFunc(ctx, studioID, days)
}

func (m *mockAvailabilityService) UpsertDays(ctx context.Context, studioID string, days []model.DayInput) error {
	return m.upsertDaysFunc(ctx, studioID, days)
}

func (m *mockAvailabilityService) DeleteForStudio(ctx context.Context, studioID string) error {
	return m.deleteFunc(ctx, studioID)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text", Service: "test"}),
	}
}

func validStudio(owner string) *model.Studio {
	return &model.Studio{
		Name:                 "Echo Chamber",
		Owner:                owner,
		PricePerHour:         800,
		MinimumDurationHours: 1,
		OperationalHours:     model.OperationalHours{Start: 9, End: 21},
		Packages: []model.Package{
			{Key: "1 Cam", Price: 1000},
		},
	}
}

func newService(repo *mockStudioRepository, avail *mockAvailabilityService) StudioService {
	cfg := testConfig()
	return NewStudioService(repo, avail, validator.NewStudioValidator(cfg.Log), events.NoopPublisher{}, cfg)
}

func TestCreateSeedsAvailabilityAndResetsApproval(t *testing.T) {
	var seededStudio string
	var seededDays []model.DayInput

	repo := &mockStudioRepository{
		createFunc: func(ctx context.Context, studio *model.Studio) error {
			studio.ID = "64f1b2c3d4e5f6a7b8c9d0e2"
			return nil
		},
	}
	avail := &mockAvailabilityService{
		seedDaysFunc: func(ctx context.Context, studioID string, days []model.DayInput) error {
			seededStudio = studioID
			seededDays = days
			return nil
		},
	}

	studio := validStudio("64f1b2c3d4e5f6a7b8c9d0e1")
	studio.Approved = true // client cannot self-approve

	days := []model.DayInput{{Date: "2024-06-10", Slots: []model.Slot{{Hour: 9, IsAvailable: true}}}}

	if err := newService(repo, avail).Create(context.Background(), studio, days); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if studio.Approved {
		t.Error("expected studio to be created unapproved")
	}
	if seededStudio != "64f1b2c3d4e5f6a7b8c9d0e2" {
		t.Errorf("availability seeded for %q, want the created studio ID", seededStudio)
	}
	if len(seededDays) != 1 {
		t.Errorf("expected 1 availability day seeded, got %d", len(seededDays))
	}
}

func TestCreateRejectsInvalidStudio(t *testing.T) {
	repo := &mockStudioRepository{
		createFunc: func(ctx context.Context, studio *model.Studio) error {
			t.Fatal("create should not be called for an invalid studio")
			return nil
		},
	}

	studio := validStudio("64f1b2c3d4e5f6a7b8c9d0e1")
	studio.Packages = nil

	err := newService(repo, &mockAvailabilityService{}).Create(context.Background(), studio, nil)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	repo := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			return validStudio("64f1b2c3d4e5f6a7b8c9d0e1"), nil
		},
	}

	studio := validStudio("64f1b2c3d4e5f6a7b8c9d0e1")
	err := newService(repo, &mockAvailabilityService{}).Update(
		context.Background(), "64f1b2c3d4e5f6a7b8c9d0e2", "someone-else", studio, nil)

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestDeleteRemovesAvailability(t *testing.T) {
	owner := "64f1b2c3d4e5f6a7b8c9d0e1"
	deletedAvailability := ""

	repo := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			s := validStudio(owner)
			s.ID = id
			return s, nil
		},
		deleteFunc: func(ctx context.Context, id string) error { return nil },
	}
	avail := &mockAvailabilityService{
		deleteFunc: func(ctx context.Context, studioID string) error {
			deletedAvailability = studioID
			return nil
		},
	}

	if err := newService(repo, avail).Delete(context.Background(), "64f1b2c3d4e5f6a7b8c9d0e2", owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deletedAvailability != "64f1b2c3d4e5f6a7b8c9d0e2" {
		t.Errorf("availability deleted for %q, want the studio ID", deletedAvailability)
	}
}

func TestGetByIDTranslatesNotFound(t *testing.T) {
	repo := &mockStudioRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Studio, error) {
			return nil, fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
		},
	}

	_, err := newService(repo, &mockAvailabilityService{}).GetByID(context.Background(), "64f1b2c3d4e5f6a7b8c9d0e2")

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
