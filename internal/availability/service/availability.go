package service

import (
	"context"
	"sort"
	"time"

	"github.com/Podhive/MVP/internal/availability/repository"
	"github.com/Podhive/MVP/pkg/config"
	apperrors "github.com/Podhive/MVP/pkg/errors"
	"github.com/Podhive/MVP/pkg/model"
)

type AvailabilityService interface {
	// Query returns the open hours of a studio from today onward, with
	// today's already-elapsed hours removed.
	Query(ctx context.Context, studioID string) ([]model.DayAvailability, error)
	SeedDays(ctx context.Context, studioID string, days []model.DayInput) error
	UpsertDays(ctx context.Context, studioID string, days []model.DayInput) error
	DeleteForStudio(ctx context.Context, studioID string) error
}

type availabilityService struct {
	repo repository.AvailabilityRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewAvailabilityService(repo repository.AvailabilityRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

func (s *availabilityService) Query(ctx context.Context, studioID string) ([]model.DayAvailability, error) {
	if studioID == "" {
		return nil, apperrors.InvalidInput("Studio ID cannot be empty")
	}

	now := s.now().UTC()
	today := model.NormalizeDate(now)

	days, err := s.repo.FindFromDate(ctx, studioID, today)
	if err != nil {
		s.cfg.Log.Error("Failed to query availability", "studio_id", studioID, "error", err)
		return nil, apperrors.Internal("Failed to fetch availability", err)
	}

	result := make([]model.DayAvailability, 0, len(days))
	for _, day := range days {
		hours := day.OpenHours()

		// An hour at or before the current one is not bookable today.
		if model.SameDay(day.Date, today) {
			hours = hoursAfter(hours, now.Hour())
		}
		if len(hours) == 0 {
			continue
		}

		sort.Ints(hours)
		result = append(result, model.DayAvailability{
			Date:  day.Date.Format(model.DateLayout),
			Hours: hours,
		})
	}

	return result, nil
}

func (s *availabilityService) SeedDays(ctx context.Context, studioID string, days []model.DayInput) error {
	docs, err := buildDays(studioID, days)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	if err := s.repo.InsertDays(ctx, docs); err != nil {
		s.cfg.Log.Error("Failed to seed availability", "studio_id", studioID, "error", err)
		return apperrors.Internal("Failed to create availability", err)
	}

	s.cfg.Log.Info("Availability seeded", "studio_id", studioID, "days", len(docs))
	return nil
}

func (s *availabilityService) UpsertDays(ctx context.Context, studioID string, days []model.DayInput) error {
	docs, err := buildDays(studioID, days)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	if err := s.repo.UpsertDays(ctx, studioID, docs); err != nil {
		s.cfg.Log.Error("Failed to upsert availability", "studio_id", studioID, "error", err)
		return apperrors.Internal("Failed to update availability", err)
	}

	return nil
}

func (s *availabilityService) DeleteForStudio(ctx context.Context, studioID string) error {
	deleted, err := s.repo.DeleteByStudio(ctx, studioID)
	if err != nil {
		s.cfg.Log.Error("Failed to delete availability", "studio_id", studioID, "error", err)
		return apperrors.Internal("Failed to delete availability", err)
	}

	s.cfg.Log.Info("Availability removed for studio", "studio_id", studioID, "deleted", deleted)
	return nil
}

func buildDays(studioID string, days []model.DayInput) ([]*model.AvailabilityDay, error) {
	docs := make([]*model.AvailabilityDay, 0, len(days))
	for _, d := range days {
		date, err := model.ParseDate(d.Date)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid availability date: " + d.Date)
		}

		slots := make([]model.Slot, len(d.Slots))
		for i, slot := range d.Slots {
			if slot.Hour < 0 || slot.Hour > 23 {
				return nil, apperrors.InvalidInput("Slot hours must be between 0 and 23")
			}
			slots[i] = slot
		}

		docs = append(docs, &model.AvailabilityDay{
			Studio: studioID,
			Date:   date,
			Slots:  slots,
		})
	}
	return docs, nil
}

func hoursAfter(hours []int, current int) []int {
	out := hours[:0:0]
	for _, h := range hours {
		if h > current {
			out = append(out, h)
		}
	}
	return out
}
