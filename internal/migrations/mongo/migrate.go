package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Podhive/MVP/internal/migrations/mongo/validators"
)

var (
	UsersIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	StudiosIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "approved", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	AvailabilityIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studio", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "studio", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "customer", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	ReviewsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studio", Value: 1}, {Key: "reviewer", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	// Abandoned locks expire the moment expires_at passes.
	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Users": {
			Indexes:   UsersIndexes,
			Validator: validators.UserValidator,
		},
		"Studios": {
			Indexes:   StudiosIndexes,
			Validator: validators.StudioValidator,
		},
		"Availability": {
			Indexes:   AvailabilityIndexes,
			Validator: validators.AvailabilityValidator,
		},
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Reviews": {
			Indexes:   ReviewsIndexes,
			Validator: validators.ReviewValidator,
		},
		"SlotLocks": {
			Indexes: SlotLocksIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator != nil {
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}

	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}

	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
