package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	studioserrors "github.com/Podhive/MVP/internal/studios/errors"
	"github.com/Podhive/MVP/pkg/config"
	mongotx "github.com/Podhive/MVP/pkg/db/mongo"
	"github.com/Podhive/MVP/pkg/model"
)

const CollectionName = "Studios"

type StudioRepository interface {
	Create(ctx context.Context, studio *model.Studio) error
	FindByID(ctx context.Context, id string) (*model.Studio, error)
	FindApproved(ctx context.Context, limit int, offset int64) ([]*model.Studio, error)
	FindPending(ctx context.Context, limit int, offset int64) ([]*model.Studio, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error)
	Update(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) error
	UpdateRatingSummary(ctx context.Context, id string, summary model.RatingSummary) error
	Count(ctx context.Context, approved bool) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoStudioRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoStudioRepository(cfg *config.Config) StudioRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStudioRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are inside a
// transaction, where wrapping the SessionContext would break session
// semantics.
func (r *mongoStudioRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoStudioRepository) Create(ctx context.Context, studio *model.Studio) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	studio.CreatedAt = now
	studio.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, studio)
	if err != nil {
		return fmt.Errorf("failed to create studio: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		studio.ID = oid.Hex()
	}

	return nil
}

func (r *mongoStudioRepository) FindByID(ctx context.Context, id string) (*model.Studio, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", studioserrors.ErrInvalidID, id)
	}

	var studio model.Studio
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&studio)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find studio: %w", err)
	}

	return &studio, nil
}

func (r *mongoStudioRepository) FindApproved(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return r.findByApproval(ctx, true, limit, offset)
}

func (r *mongoStudioRepository) FindPending(ctx context.Context, limit int, offset int64) ([]*model.Studio, error) {
	return r.findByApproval(ctx, false, limit, offset)
}

func (r *mongoStudioRepository) findByApproval(ctx context.Context, approved bool, limit int, offset int64) ([]*model.Studio, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"approved": approved}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query studios: %w", err)
	}
	defer cursor.Close(ctx)

	var studios []*model.Studio
	if err := cursor.All(ctx, &studios); err != nil {
		return nil, fmt.Errorf("failed to decode studios: %w", err)
	}

	return studios, nil
}

func (r *mongoStudioRepository) FindByOwner(ctx context.Context, ownerID string) ([]*model.Studio, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"owner": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query studios by owner: %w", err)
	}
	defer cursor.Close(ctx)

	var studios []*model.Studio
	if err := cursor.All(ctx, &studios); err != nil {
		return nil, fmt.Errorf("failed to decode studios: %w", err)
	}

	return studios, nil
}

func (r *mongoStudioRepository) Update(ctx context.Context, id string, studio *model.Studio) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", studioserrors.ErrInvalidID, id)
	}

	studio.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{"$set": bson.M{
		"name":                   studio.Name,
		"description":            studio.Description,
		"location":               studio.Location,
		"price_per_hour":         studio.PricePerHour,
		"minimum_duration_hours": studio.MinimumDurationHours,
		"packages":               studio.Packages,
		"addons":                 studio.AddOns,
		"equipments":             studio.Equipments,
		"amenities":              studio.Amenities,
		"images":                 studio.Images,
		"youtube_links":          studio.YoutubeLinks,
		"operational_hours":      studio.OperationalHours,
		"instagram_username":     studio.InstagramUsername,
		"area":                   studio.Area,
		"rules":                  studio.Rules,
		"updated_at":             studio.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update studio: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
	}

	return result, nil
}

func (r *mongoStudioRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", studioserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete studio: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoStudioRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", studioserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{
		"approved":   approved,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update studio approval: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoStudioRepository) UpdateRatingSummary(ctx context.Context, id string, summary model.RatingSummary) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", studioserrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"rating_summary": summary}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update rating summary: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", studioserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoStudioRepository) Count(ctx context.Context, approved bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"approved": approved})
	if err != nil {
		return 0, fmt.Errorf("failed to count studios: %w", err)
	}

	return count, nil
}

func (r *mongoStudioRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
