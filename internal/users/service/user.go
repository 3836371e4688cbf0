package service

import (
	"context"
	"sync"

	bookingsrepo "courtsync/internal/bookings/repository"
	eventsrepo "courtsync/internal/events/repository"
	"courtsync/internal/users/repository"
	"courtsync/internal/watch"
	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/model"
)

type UserService interface {
	Directory(ctx context.Context) ([]model.User, error)
	WatchDirectory(ctx context.Context, onDirectory func([]model.User)) error
	Stats(ctx context.Context) (*model.Stats, error)
}

type userService struct {
	repo     repository.UserRepository
	bookings bookingsrepo.BookingRepository
	events   eventsrepo.EventRepository
	cfg      *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	bookings bookingsrepo.BookingRepository,
	events eventsrepo.EventRepository,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:     repo,
		bookings: bookings,
		events:   events,
		cfg:      cfg,
	}
}

func (s *userService) Directory(ctx context.Context) ([]model.User, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load user snapshot", "error", err)
		return nil, apperrors.Internal("Failed to load user directory", err)
	}

	return directory(snapshot), nil
}

func (s *userService) WatchDirectory(ctx context.Context, onDirectory func([]model.User)) error {
	return s.repo.Watch(ctx, func(snapshot watch.Snapshot) {
		onDirectory(directory(snapshot))
	})
}

func directory(snapshot watch.Snapshot) []model.User {
	users := make([]model.User, 0, len(snapshot))
	for _, doc := range snapshot {
		users = append(users, model.NormalizeUser(doc.ID, doc.Fields))
	}
	return users
}

// Stats runs the three collection counts concurrently. Each count
// fails on its own: a broken collection logs and reports zero while
// the other two still come back real.
func (s *userService) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		count, err := s.bookings.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			return
		}
		stats.Bookings = count
	}()

	go func() {
		defer wg.Done()
		count, err := s.events.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count event requests", "error", err)
			return
		}
		stats.Events = count
	}()

	go func() {
		defer wg.Done()
		count, err := s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count users", "error", err)
			return
		}
		stats.Users = count
	}()

	wg.Wait()
	return stats, nil
}
