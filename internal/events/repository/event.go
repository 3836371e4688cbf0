package repository

import (
	"context"
	"fmt"
	"time"

	eventserrors "courtsync/internal/events/errors"
	"courtsync/internal/watch"
	"courtsync/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "event_bookings"

type EventRepository interface {
	Snapshot(ctx context.Context) (watch.Snapshot, error)
	Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error
	UpdateStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int64, error)
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	watcher    *watch.Watcher
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: collection,
		watcher:    watch.NewWatcher(collection, cfg.Log),
	}
}

func (r *mongoEventRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoEventRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load event requests: %w", err)
	}
	defer cursor.Close(ctx)

	return watch.DecodeSnapshot(ctx, cursor, CollectionName)
}

func (r *mongoEventRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return r.watcher.Watch(ctx, onSnapshot)
}

// UpdateStatus writes only the status field; the rest of the document,
// whatever client version wrote it, is left as found.
func (r *mongoEventRepository) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		watch.IDFilter(id),
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.MatchedCount == 0 {
		return eventserrors.ErrNotFound
	}

	return nil
}

func (r *mongoEventRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count event requests: %w", err)
	}

	return count, nil
}
