package service

import (
	"context"

	"courtsync/internal/bookings/repository"
	"courtsync/internal/watch"
	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/model"
)

type CourtService interface {
	Occupancy(ctx context.Context) (*model.OccupancyBoard, error)
	WatchOccupancy(ctx context.Context, onBoard func(*model.OccupancyBoard)) error
}

type courtService struct {
	repo repository.BookingRepository
	cfg  *config.Config
}

func NewCourtService(repo repository.BookingRepository, cfg *config.Config) CourtService {
	return &courtService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *courtService) Occupancy(ctx context.Context) (*model.OccupancyBoard, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load booking snapshot", "error", err)
		return nil, apperrors.Internal("Failed to load court occupancy", err)
	}

	return Reduce(snapshot, s.cfg.CourtCount), nil
}

func (s *courtService) WatchOccupancy(ctx context.Context, onBoard func(*model.OccupancyBoard)) error {
	return s.repo.Watch(ctx, func(snapshot watch.Snapshot) {
		onBoard(Reduce(snapshot, s.cfg.CourtCount))
	})
}

// Reduce derives the occupancy board from a full booking snapshot.
// Cancelled bookings are excluded before indexing, records whose court
// number will not parse are skipped, and when two active bookings claim
// the same court the one iterated last wins. Slots outside 1..courtCount
// are discarded.
func Reduce(snapshot watch.Snapshot, courtCount int) *model.OccupancyBoard {
	occupied := make(map[int]model.Booking, courtCount)

	for _, doc := range snapshot {
		booking, ok := model.NormalizeBooking(doc.ID, doc.Fields)
		if !ok {
			continue
		}
		if booking.Cancelled() {
			continue
		}
		if booking.Court < 1 || booking.Court > courtCount {
			continue
		}
		occupied[booking.Court] = booking
	}

	board := &model.OccupancyBoard{
		Courts: make([]model.CourtStatus, 0, courtCount),
		Active: make([]model.Booking, 0, len(occupied)),
	}

	for court := 1; court <= courtCount; court++ {
		status := model.CourtStatus{Court: court}
		if booking, booked := occupied[court]; booked {
			status.Booked = true
			b := booking
			status.Booking = &b
			board.Active = append(board.Active, booking)
		}
		board.Courts = append(board.Courts, status)
	}

	return board
}
