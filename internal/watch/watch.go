package watch

import (
	"context"
	"fmt"

	"courtsync/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Document is one raw document in a snapshot, identifier split out from
// the loosely-typed field mapping.
type Document struct {
	ID     string
	Fields bson.M
}

// Snapshot is the complete current set of documents in a collection,
// in natural cursor order. Subscribers receive a full snapshot on every
// change, never a diff.
type Snapshot []Document

// SnapshotFunc consumes one snapshot. It runs on the watch goroutine;
// derived-state recomputation happens inside it.
type SnapshotFunc func(Snapshot)

// Watcher ties a live subscription to one collection. Each view opens
// its own Watcher per mount; watchers share nothing.
type Watcher struct {
	collection *mongo.Collection
	log        *logger.Logger
}

func NewWatcher(collection *mongo.Collection, log *logger.Logger) *Watcher {
	return &Watcher{
		collection: collection,
		log:        log,
	}
}

// Watch emits the initial full snapshot, then one full snapshot per
// change-stream event, until ctx is cancelled or the stream fails.
// A stream failure is returned to the caller and NOT retried here;
// reconnection is the store client's business. The change stream is
// closed on every exit path.
func (w *Watcher) Watch(ctx context.Context, onSnapshot SnapshotFunc) error {
	stream, err := w.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return fmt.Errorf("failed to open change stream on %s: %w", w.collection.Name(), err)
	}
	defer func() {
		if closeErr := stream.Close(context.Background()); closeErr != nil {
			w.log.Warn("Failed to close change stream",
				"collection", w.collection.Name(),
				"error", closeErr,
			)
		}
	}()

	// Stream first, then initial read: a write landing between the two
	// shows up as a change event and triggers a re-read, so nothing is
	// lost to the gap.
	snapshot, err := w.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	onSnapshot(snapshot)

	for stream.Next(ctx) {
		snapshot, err := w.loadSnapshot(ctx)
		if err != nil {
			return err
		}
		onSnapshot(snapshot)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("change stream on %s failed: %w", w.collection.Name(), err)
	}
	return nil
}

func (w *Watcher) loadSnapshot(ctx context.Context) (Snapshot, error) {
	cursor, err := w.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot of %s: %w", w.collection.Name(), err)
	}
	defer cursor.Close(ctx)

	return DecodeSnapshot(ctx, cursor, w.collection.Name())
}

// DecodeSnapshot drains a cursor into the full-snapshot shape shared by
// all live views and repositories.
func DecodeSnapshot(ctx context.Context, cursor *mongo.Cursor, collection string) (Snapshot, error) {
	var snapshot Snapshot
	for cursor.Next(ctx) {
		var fields bson.M
		if err := cursor.Decode(&fields); err != nil {
			return nil, fmt.Errorf("failed to decode document in %s: %w", collection, err)
		}

		id := DocumentID(fields["_id"])
		delete(fields, "_id")
		snapshot = append(snapshot, Document{ID: id, Fields: fields})
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("snapshot cursor on %s failed: %w", collection, err)
	}

	return snapshot, nil
}

// IDFilter matches documents whose _id is either a store-assigned
// ObjectID or a plain string; imported documents carry both forms.
func IDFilter(id string) bson.M {
	if objectID, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": objectID}
	}
	return bson.M{"_id": id}
}

// DocumentID renders a raw _id value as a string. Store-assigned ids
// are ObjectIDs; externally imported documents sometimes carry plain
// string ids.
func DocumentID(v any) string {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
