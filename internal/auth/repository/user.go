package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	autherrors "github.com/Podhive/MVP/internal/auth/errors"
	"github.com/Podhive/MVP/pkg/config"
	"github.com/Podhive/MVP/pkg/model"
)

const CollectionName = "Users"

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// SetVerified marks the account verified and clears the signup OTP.
	SetVerified(ctx context.Context, id string) error
	SetEmailOTP(ctx context.Context, id, otp string, expiresAt time.Time) error
	SetPasswordResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error
	IncrementPasswordResetAttempts(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(user.Email)

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return autherrors.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}

	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", autherrors.ErrInvalidID, id)
	}

	var user model.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", autherrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var user model.User
	err := r.collection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, autherrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

func (r *mongoUserRepository) SetVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"is_verified": true,
			"updated_at":  time.Now().UTC().Truncate(time.Millisecond),
		},
		"$unset": bson.M{
			"email_otp":      "",
			"otp_expires_at": "",
		},
	})
}

func (r *mongoUserRepository) SetEmailOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"email_otp":      otp,
			"otp_expires_at": expiresAt,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	})
}

func (r *mongoUserRepository) SetPasswordResetOTP(ctx context.Context, id, otp string, expiresAt time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_reset_otp":      otp,
			"password_reset_expires":  expiresAt,
			"password_reset_attempts": 0,
			"updated_at":              time.Now().UTC().Truncate(time.Millisecond),
		},
	})
}

func (r *mongoUserRepository) IncrementPasswordResetAttempts(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{
		"$inc": bson.M{"password_reset_attempts": 1},
	})
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":            hashedPassword,
			"password_changed_at": now,
			"updated_at":          now,
		},
		"$unset": bson.M{
			"password_reset_otp":      "",
			"password_reset_expires":  "",
			"password_reset_attempts": "",
		},
	})
}

func (r *mongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", autherrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", autherrors.ErrNotFound, id)
	}

	return nil
}
