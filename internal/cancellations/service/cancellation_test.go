package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtsync/internal/audit"
	bookingserrors "courtsync/internal/bookings/errors"
	cancellationserrors "courtsync/internal/cancellations/errors"
	"courtsync/internal/watch"
	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/logger"
	"courtsync/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type mockCancellationRepository struct {
	snapshotFunc      func(ctx context.Context) (watch.Snapshot, error)
	watchFunc         func(ctx context.Context, onSnapshot watch.SnapshotFunc) error
	findByIDFunc      func(ctx context.Context, id string) (watch.Document, error)
	markProcessedFunc func(ctx context.Context, id string) error
	deleteFunc        func(ctx context.Context, id string) error
}

func (m *mockCancellationRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx)
	}
	return watch.Snapshot{}, nil
}

func (m *mockCancellationRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, onSnapshot)
	}
	return nil
}

func (m *mockCancellationRepository) FindByID(ctx context.Context, id string) (watch.Document, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return watch.Document{}, cancellationserrors.ErrNotFound
}

func (m *mockCancellationRepository) MarkProcessed(ctx context.Context, id string) error {
	if m.markProcessedFunc != nil {
		return m.markProcessedFunc(ctx, id)
	}
	return nil
}

func (m *mockCancellationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockBookingRepository struct {
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockBookingRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	return watch.Snapshot{}, nil
}

func (m *mockBookingRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return nil
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo *mockCancellationRepository, bookings *mockBookingRepository) CancellationService {
	cfg := testConfig()
	return NewCancellationService(repo, bookings, audit.NewNopRecorder(cfg.Log), cfg)
}

func TestPending_FiltersProcessed(t *testing.T) {
	repo := &mockCancellationRepository{
		snapshotFunc: func(ctx context.Context) (watch.Snapshot, error) {
			return watch.Snapshot{
				{ID: "a", Fields: bson.M{"userName": "Alice", "processed": false}},
				{ID: "b", Fields: bson.M{"userName": "Bob", "processed": true}},
				{ID: "c", Fields: bson.M{"userName": "Cara"}},
				{ID: "d", Fields: bson.M{"userName": "Dave", "processed": "yes"}},
			}, nil
		},
	}

	service := newTestService(repo, &mockBookingRepository{})

	pending, err := service.Pending(context.Background())
	require.NoError(t, err)

	// Only a literal true counts as processed; "yes" does not.
	require.Len(t, pending, 3)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "c", pending[1].ID)
	assert.Equal(t, "d", pending[2].ID)
}

func TestAccept_MarksProcessedAndDeletesBooking(t *testing.T) {
	var marked, deleted string

	repo := &mockCancellationRepository{
		findByIDFunc: func(ctx context.Context, id string) (watch.Document, error) {
			return watch.Document{ID: id, Fields: bson.M{"bookingId": "bk-42"}}, nil
		},
		markProcessedFunc: func(ctx context.Context, id string) error {
			marked = id
			return nil
		},
	}
	bookings := &mockBookingRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	service := newTestService(repo, bookings)

	err := service.Accept(context.Background(), "req-1", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "req-1", marked)
	assert.Equal(t, "bk-42", deleted)
}

func TestAccept_NoBookingRefSkipsDelete(t *testing.T) {
	deleteCalled := false

	repo := &mockCancellationRepository{
		findByIDFunc: func(ctx context.Context, id string) (watch.Document, error) {
			return watch.Document{ID: id, Fields: bson.M{"reason": "rain"}}, nil
		},
	}
	bookings := &mockBookingRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleteCalled = true
			return nil
		},
	}

	service := newTestService(repo, bookings)

	err := service.Accept(context.Background(), "req-2", "admin@example.com")
	require.NoError(t, err)
	assert.False(t, deleteCalled)
}

func TestAccept_MissingBookingStillSucceeds(t *testing.T) {
	repo := &mockCancellationRepository{
		findByIDFunc: func(ctx context.Context, id string) (watch.Document, error) {
			return watch.Document{ID: id, Fields: bson.M{"bookingId": "bk-gone"}}, nil
		},
	}
	bookings := &mockBookingRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return bookingserrors.ErrNotFound
		},
	}

	service := newTestService(repo, bookings)

	err := service.Accept(context.Background(), "req-3", "admin@example.com")
	require.NoError(t, err)
}

func TestAccept_BookingDeleteFailureReportsPartialState(t *testing.T) {
	marked := false

	repo := &mockCancellationRepository{
		findByIDFunc: func(ctx context.Context, id string) (watch.Document, error) {
			return watch.Document{ID: id, Fields: bson.M{"bookingId": "bk-99"}}, nil
		},
		markProcessedFunc: func(ctx context.Context, id string) error {
			marked = true
			return nil
		},
	}
	bookings := &mockBookingRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return errors.New("write conflict")
		},
	}

	service := newTestService(repo, bookings)

	err := service.Accept(context.Background(), "req-4", "admin@example.com")
	require.Error(t, err)

	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodePartial, appErr.Code)
	assert.Contains(t, appErr.Message, "bk-99")

	// The first write is not rolled back.
	assert.True(t, marked)
}

func TestAccept_RequestNotFound(t *testing.T) {
	service := newTestService(&mockCancellationRepository{}, &mockBookingRepository{})

	err := service.Accept(context.Background(), "missing", "admin@example.com")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}

func TestReject_DeletesRequestOnly(t *testing.T) {
	var deleted string
	bookingTouched := false

	repo := &mockCancellationRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	bookings := &mockBookingRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			bookingTouched = true
			return nil
		},
	}

	service := newTestService(repo, bookings)

	err := service.Reject(context.Background(), "req-5", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "req-5", deleted)
	assert.False(t, bookingTouched)
}

func TestWatchPending_EmitsFilteredSnapshots(t *testing.T) {
	repo := &mockCancellationRepository{
		watchFunc: func(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
			onSnapshot(watch.Snapshot{
				{ID: "a", Fields: bson.M{"processed": true}},
				{ID: "b", Fields: bson.M{"reason": "rain"}},
			})
			return nil
		},
	}

	service := newTestService(repo, &mockBookingRepository{})

	var emitted []model.CancellationRequest
	err := service.WatchPending(context.Background(), func(pending []model.CancellationRequest) {
		emitted = pending
	})
	require.NoError(t, err)

	require.Len(t, emitted, 1)
	assert.Equal(t, "b", emitted[0].ID)
}
