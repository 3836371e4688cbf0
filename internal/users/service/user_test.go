package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"courtsync/internal/watch"
	"courtsync/pkg/config"
	"courtsync/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type mockUserRepository struct {
	snapshotFunc func(ctx context.Context) (watch.Snapshot, error)
	countFunc    func(ctx context.Context) (int64, error)
}

func (m *mockUserRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	if m.snapshotFunc != nil {
		return m.snapshotFunc(ctx)
	}
	return watch.Snapshot{}, nil
}

func (m *mockUserRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return nil
}

func (m *mockUserRepository) NamesByID(ctx context.Context, ids []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

type mockCountRepository struct {
	countFunc func(ctx context.Context) (int64, error)
}

func (m *mockCountRepository) Snapshot(ctx context.Context) (watch.Snapshot, error) {
	return watch.Snapshot{}, nil
}

func (m *mockCountRepository) Watch(ctx context.Context, onSnapshot watch.SnapshotFunc) error {
	return nil
}

func (m *mockCountRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockCountRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return nil
}

func (m *mockCountRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout: 5 * time.Second,
	}
}

func TestDirectory_AppliesDisplayDefaults(t *testing.T) {
	repo := &mockUserRepository{
		snapshotFunc: func(ctx context.Context) (watch.Snapshot, error) {
			return watch.Snapshot{
				{ID: "u1", Fields: bson.M{"name": "Alice", "email": "alice@example.com", "role": "member"}},
				{ID: "u2", Fields: bson.M{}},
			}, nil
		},
	}

	service := NewUserService(repo, &mockCountRepository{}, &mockCountRepository{}, testConfig())

	users, err := service.Directory(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "N/A", users[1].Name)
	assert.Equal(t, "N/A", users[1].Email)
}

func TestStats_CountsAllThreeCollections(t *testing.T) {
	bookings := &mockCountRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 12, nil },
	}
	events := &mockCountRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 4, nil },
	}
	users := &mockUserRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 57, nil },
	}

	service := NewUserService(users, bookings, events, testConfig())

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.Bookings)
	assert.Equal(t, int64(4), stats.Events)
	assert.Equal(t, int64(57), stats.Users)
}

func TestStats_FailedCountIsIsolated(t *testing.T) {
	bookings := &mockCountRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 0, errors.New("collection offline") },
	}
	events := &mockCountRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 4, nil },
	}
	users := &mockUserRepository{
		countFunc: func(ctx context.Context) (int64, error) { return 57, nil },
	}

	service := NewUserService(users, bookings, events, testConfig())

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)

	// The broken count reports zero; the others still come back real.
	assert.Equal(t, int64(0), stats.Bookings)
	assert.Equal(t, int64(4), stats.Events)
	assert.Equal(t, int64(57), stats.Users)
}
