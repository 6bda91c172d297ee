package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	availerrors "github.com/Podhive/MVP/internal/availability/errors"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

const CollectionName = "Availability"

type AvailabilityRepository interface {
	FindFromDate(ctx context.Context, studioID string, from time.Time) ([]*model.AvailabilityDay, error)
	FindByStudioAndDate(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error)
	InsertDays(ctx context.Context, days []*model.AvailabilityDay) error
	UpsertDays(ctx context.Context, studioID string, days []*model.AvailabilityDay) error
	CloseSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error)
	OpenSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error)
	DeleteByStudio(ctx context.Context, studioID string) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoAvailabilityRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAvailabilityRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

// withTimeout wraps the context with a timeout unless we are already inside
// a transaction, where wrapping a SessionContext would break session
// semantics.
func (r *mongoAvailabilityRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAvailabilityRepository) FindFromDate(ctx context.Context, studioID string, from time.Time) ([]*model.AvailabilityDay, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"studio": studioID,
		"date":   bson.M{"$gte": model.NormalizeDate(from)},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability days: %w", err)
	}
	defer cursor.Close(ctx)

	var days []*model.AvailabilityDay
	if err = cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("failed to decode availability days: %w", err)
	}

	return days, nil
}

func (r *mongoAvailabilityRepository) FindByStudioAndDate(ctx context.Context, studioID string, date time.Time) (*model.AvailabilityDay, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"studio": studioID, "date": model.NormalizeDate(date)}

	var day model.AvailabilityDay
	err := r.collection.FindOne(ctx, filter).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, availerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find availability day: %w", err)
	}

	return &day, nil
}

func (r *mongoAvailabilityRepository) InsertDays(ctx context.Context, days []*model.AvailabilityDay) error {
	if len(days) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, len(days))
	for i, d := range days {
		d.Date = model.NormalizeDate(d.Date)
		docs[i] = d
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert availability days: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepository) UpsertDays(ctx context.Context, studioID string, days []*model.AvailabilityDay) error {
	if len(days) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, len(days))
	for i, d := range days {
		date := model.NormalizeDate(d.Date)
		models[i] = mongo.NewUpdateOneModel().
			SetFilter(bson.M{"studio": studioID, "date": date}).
			SetUpdate(bson.M{"$set": bson.M{"slots": d.Slots}}).
			SetUpsert(true)
	}

	if _, err := r.collection.BulkWrite(ctx, models); err != nil {
		return fmt.Errorf("failed to upsert availability days: %w", err)
	}
	return nil
}

// CloseSlots flips the requested hours to unavailable. The array filter
// only matches slots still open, so a slot closed by a concurrent booking
// is left untouched and the transaction-level re-check catches it.
func (r *mongoAvailabilityRepository) CloseSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
	return r.setSlots(ctx, studioID, date, hours, false)
}

// OpenSlots flips the given hours back to available on cancellation. A
// zero match count is possible when the day was already reaped.
func (r *mongoAvailabilityRepository) OpenSlots(ctx context.Context, studioID string, date time.Time, hours []int) (int64, error) {
	return r.setSlots(ctx, studioID, date, hours, true)
}

func (r *mongoAvailabilityRepository) setSlots(ctx context.Context, studioID string, date time.Time, hours []int, available bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"studio": studioID, "date": model.NormalizeDate(date)}
	update := bson.M{"$set": bson.M{"slots.$[elem].is_available": available}}

	elemFilter := bson.M{"elem.hour": bson.M{"$in": hours}}
	if !available {
		elemFilter["elem.is_available"] = true
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []any{elemFilter},
	})

	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to update slots: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *mongoAvailabilityRepository) DeleteByStudio(ctx context.Context, studioID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"studio": studioID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete availability for studio: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoAvailabilityRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": model.NormalizeDate(cutoff)}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete past availability: %w", err)
	}
	return result.DeletedCount, nil
}
