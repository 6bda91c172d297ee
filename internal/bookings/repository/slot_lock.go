package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

const SlotLockCollectionName = "SlotLocks"

// SlotLockRepository provides advisory locks that serialize concurrent
// booking attempts on the same studio and date. The collection carries a
// unique _id plus a TTL index on expires_at so abandoned locks expire on
// their own.
type SlotLockRepository interface {
	// Acquire inserts the lock, returning false when it is already held.
	Acquire(ctx context.Context, lockID string) (bool, error)
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(SlotLockCollectionName),
	}
}

func (r *mongoSlotLockRepository) Acquire(ctx context.Context, lockID string) (bool, error) {
	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        lockID,
		ExpiresAt: now.Add(r.cfg.SlotLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
