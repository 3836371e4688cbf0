package repository

import (
	"context"
	"fmt"
	"time"

	cancellationserrors "courtsync/internal/cancellations/errors"
	"courtsync/internal/watch"
	"courtsync/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const CollectionName = "cancellation_requests"

type CancellationRepository interface {
	Snapshot(ctx context.Context) (watch.Snapshot, error)
	Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error
	FindByID(ctx context.Context, id string) (watch.Document, error)
	MarkProcessed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type mongoCancellationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	watcher    *watch.Watcher
}

func NewMongoCancellationRepository(cfg *config.Config) CancellationRepository {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	return &mongoCancellationRepository{
		cfg:        cfg,
		collection: collection,
		watcher:    watch.NewWatcher(collection, cfg.Log),
	}
}

func (r *mongoCancellationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCancellationRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load cancellation requests: %w", err)
	}
	defer cursor.Close(ctx)

	return watch.DecodeSnapshot(ctx, cursor, CollectionName)
}

func (r *mongoCancellationRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return r.watcher.Watch(ctx, onSnapshot)
}

func (r *mongoCancellationRepository) FindByID(ctx context.Context, id string) (watch.Document, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var fields bson.M
	err := r.collection.FindOne(ctx, watch.IDFilter(id)).Decode(&fields)
	if err == mongo.ErrNoDocuments {
		return watch.Document{}, cancellationserrors.ErrNotFound
	}
	if err != nil {
		return watch.Document{}, fmt.Errorf("failed to find cancellation request: %w", err)
	}

	delete(fields, "_id")
	return watch.Document{ID: id, Fields: fields}, nil
}

func (r *mongoCancellationRepository) MarkProcessed(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		watch.IDFilter(id),
		bson.M{"$set": bson.M{"processed": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark cancellation request processed: %w", err)
	}

	if result.MatchedCount == 0 {
		return cancellationserrors.ErrNotFound
	}

	return nil
}

func (r *mongoCancellationRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, watch.IDFilter(id))
	if err != nil {
		return fmt.Errorf("failed to delete cancellation request: %w", err)
	}

	if result.DeletedCount == 0 {
		return cancellationserrors.ErrNotFound
	}

	return nil
}
