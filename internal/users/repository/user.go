package repository

import (
	"context"
	"fmt"
	"time"

	"courtsync/internal/watch"
	"courtsync/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "users"

type UserRepository interface {
	Snapshot(ctx context.Context) (watch.Snapshot, error)
	Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
	Count(ctx context.Context) (int64, error)
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	watcher    *watch.Watcher
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	collection := cfg.Client.Mongo.Database(cfg.MongoDatabaseName).Collection(CollectionName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: collection,
		watcher:    watch.NewWatcher(collection, cfg.Log),
	}
}

func (r *mongoUserRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoUserRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	defer cursor.Close(ctx)

	return watch.DecodeSnapshot(ctx, cursor, CollectionName)
}

func (r *mongoUserRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return r.watcher.Watch(ctx, onSnapshot)
}

// NamesByID resolves display names for a batch of user ids in one
// query. Ids that match no document are simply absent from the result;
// the caller keeps its placeholder for those.
func (r *mongoUserRepository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Ids arrive as strings but may name ObjectID documents; match both
	// forms.
	candidates := make([]any, 0, len(ids)*2)
	for _, id := range ids {
		candidates = append(candidates, id)
		if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
			candidates = append(candidates, objectID)
		}
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"_id": bson.M{"$in": candidates}},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user names: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var fields bson.M
		if err := cursor.Decode(&fields); err != nil {
			return nil, fmt.Errorf("failed to decode user name document: %w", err)
		}

		id := watch.DocumentID(fields["_id"])
		if name, ok := fields["name"].(string); ok && name != "" {
			names[id] = name
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("user name cursor failed: %w", err)
	}

	return names, nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
