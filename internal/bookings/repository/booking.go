package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "courtsync/internal/bookings/errors"
	"courtsync/internal/watch"
	"courtsync/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "bookings"

type BookingRepository interface {
	Snapshot(ctx context.Context) (watch.Snapshot, error)
	Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	watcher    *watch.Watcher
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: collection,
		watcher:    watch.NewWatcher(collection, cfg.Log),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	defer cursor.Close(ctx)

	return watch.DecodeSnapshot(ctx, cursor, CollectionName)
}

// Watch is long-lived and deliberately not timeout-wrapped; the caller's
// context bounds the subscription lifetime.
func (r *mongoBookingRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return r.watcher.Watch(ctx, onSnapshot)
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, watch.IDFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}

	return nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}
