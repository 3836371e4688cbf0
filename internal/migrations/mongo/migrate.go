package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Domain collections carry documents written by several client
	// versions that disagree on field names, so they get indexes but
	// no schema validator; a validator would reject the legacy shapes
	// the normalizers exist to absorb.
	CancellationIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "processed", Value: 1}}},
	}

	EventIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	BookingIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "courtId", Value: 1},
			{Key: "status", Value: 1},
		}},
	}

	AdminUserIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	AdminUserValidator = bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"required":             []string{"email", "passwordHash", "createdAt"},
			"additionalProperties": true,
			"properties": bson.M{
				"_id":          bson.M{"bsonType": "objectId"},
				"email":        bson.M{"bsonType": "string"},
				"passwordHash": bson.M{"bsonType": "string"},
				"createdAt":    bson.M{"bsonType": "date"},
			},
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running console migrations on database: %s\n", dbName)

	indexed := map[string][]mongo.IndexModel{
		"cancellation_requests": CancellationIndexes,
		"event_bookings":        EventIndexes,
		"bookings":              BookingIndexes,
	}

	for name, indexes := range indexed {
		if err := ensureIndexes(ctx, db, name, indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := ensureCollection(ctx, db, "admin_users", AdminUserValidator); err != nil {
		return fmt.Errorf("failed to ensure collection admin_users: %w", err)
	}
	if err := ensureIndexes(ctx, db, "admin_users", AdminUserIndexes); err != nil {
		return fmt.Errorf("failed to ensure indexes for admin_users: %w", err)
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
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
