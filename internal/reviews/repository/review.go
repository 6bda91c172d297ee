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

	reviewserrors "github.com/Podhive/MVP/internal/reviews/errors"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

const CollectionName = "Reviews"

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id string) (*model.Review, error)
	FindByStudio(ctx context.Context, studioID string) ([]*model.Review, error)
	FindByStudioAndReviewer(ctx context.Context, studioID, reviewerID string) (*model.Review, error)
	Update(ctx context.Context, id string, update *model.ReviewUpdate) error
	Delete(ctx context.Context, id string) error
	// Summary computes the studio's average rating and review count.
	Summary(ctx context.Context, studioID string) (model.RatingSummary, error)
}

type mongoReviewRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoReviewRepository(cfg *config.Config) ReviewRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReviewRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoReviewRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoReviewRepository) Create(ctx context.Context, review *model.Review) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	review.CreatedAt = now
	review.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		// The unique (studio, reviewer) index backs the one-review rule.
		if mongo.IsDuplicateKeyError(err) {
			return reviewserrors.ErrDuplicate
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid.Hex()
	}

	return nil
}

func (r *mongoReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	var review model.Review
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) FindByStudio(ctx context.Context, studioID string) ([]*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"studio": studioID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var reviews []*model.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

func (r *mongoReviewRepository) FindByStudioAndReviewer(ctx context.Context, studioID, reviewerID string) (*model.Review, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var review model.Review
	err := r.collection.FindOne(ctx, bson.M{"studio": studioID, "reviewer": reviewerID}).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reviewserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return &review, nil
}

func (r *mongoReviewRepository) Update(ctx context.Context, id string, update *model.ReviewUpdate) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	set := bson.M{"updated_at": time.Now().UTC().Truncate(time.Millisecond)}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Description != "" {
		set["description"] = update.Description
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", reviewserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", reviewserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoReviewRepository) Summary(ctx context.Context, studioID string) (model.RatingSummary, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"studio": studioID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return model.RatingSummary{}, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.RatingSummary
	if err := cursor.All(ctx, &results); err != nil {
		return model.RatingSummary{}, fmt.Errorf("failed to decode review summary: %w", err)
	}
	if len(results) == 0 {
		return model.RatingSummary{}, nil
	}

	return results[0], nil
}
