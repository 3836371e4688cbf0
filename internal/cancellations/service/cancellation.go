package service

import (
	"context"
	"errors"
	"fmt"

	"courtsync/internal/audit"
	bookingserrors "courtsync/internal/bookings/errors"
	bookingsrepo "courtsync/internal/bookings/repository"
	cancellationserrors "courtsync/internal/cancellations/errors"
	"courtsync/internal/cancellations/repository"
	"courtsync/internal/flow"
	"courtsync/internal/watch"
	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/model"
)

type CancellationService interface {
	Pending(ctx context.Context) ([]model.CancellationRequest, error)
	WatchPending(ctx context.Context, onPending func([]model.CancellationRequest)) error
	Accept(ctx context.Context, id, actor string) error
	Reject(ctx context.Context, id, actor string) error
}

type cancellationService struct {
	repo     repository.CancellationRepository
	bookings bookingsrepo.BookingRepository
	recorder *audit.Recorder
	cfg      *config.Config
}

func NewCancellationService(
	repo repository.CancellationRepository,
	bookings bookingsrepo.BookingRepository,
	recorder *audit.Recorder,
	cfg *config.Config,
) CancellationService {
	return &cancellationService{
		repo:     repo,
		bookings: bookings,
		recorder: recorder,
		cfg:      cfg,
	}
}

func (s *cancellationService) Pending(ctx context.Context) ([]model.CancellationRequest, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load cancellation snapshot", "error", err)
		return nil, apperrors.Internal("Failed to load cancellation requests", err)
	}

	return pendingOnly(snapshot), nil
}

func (s *cancellationService) WatchPending(ctx context.Context, onPending func([]model.CancellationRequest)) error {
	return s.repo.Watch(ctx, func(snapshot watch.Snapshot) {
		onPending(pendingOnly(snapshot))
	})
}

// pendingOnly keeps unprocessed requests in snapshot order.
func pendingOnly(snapshot watch.Snapshot) []model.CancellationRequest {
	pending := make([]model.CancellationRequest, 0, len(snapshot))
	for _, doc := range snapshot {
		request := model.NormalizeCancellation(doc.ID, doc.Fields)
		if request.Processed {
			continue
		}
		pending = append(pending, request)
	}
	return pending
}

// Accept marks the request processed, then deletes the referenced
// booking. The two writes are independent: the request stays processed
// even when the booking delete fails, and the caller is told exactly
// that. A booking that is already gone, or a request carrying the
// no-reference sentinel, still counts as a clean accept.
func (s *cancellationService) Accept(ctx context.Context, id, actor string) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, cancellationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Cancellation request", id)
		}
		s.cfg.Log.Error("Failed to load cancellation request", "id", id, "error", err)
		return apperrors.Internal("Failed to load cancellation request", err)
	}

	request := model.NormalizeCancellation(doc.ID, doc.Fields)

	steps := []flow.Step{
		flow.NewStep("mark-processed", func(ctx context.Context) error {
			return s.repo.MarkProcessed(ctx, id)
		}),
	}

	if request.HasBookingRef() {
		steps = append(steps, flow.NewStep("delete-booking", func(ctx context.Context) error {
			err := s.bookings.Delete(ctx, request.BookingID)
			if errors.Is(err, bookingserrors.ErrNotFound) {
				s.cfg.Log.Warn("Booking referenced by accepted cancellation already gone",
					"cancellation_id", id,
					"booking_id", request.BookingID,
				)
				return nil
			}
			return err
		}))
	}

	sequence := flow.NewSequence("accept-cancellation", steps...)
	if err := sequence.Execute(ctx); err != nil {
		var stepErr *flow.StepError
		if errors.As(err, &stepErr) && stepErr.Completed > 0 {
			s.cfg.Log.Error("Cancellation accepted but booking delete failed",
				"cancellation_id", id,
				"booking_id", request.BookingID,
				"error", err,
			)
			return apperrors.Partial(
				fmt.Sprintf("Request marked processed but booking %s was not deleted", request.BookingID),
				err,
			)
		}
		if errors.Is(err, cancellationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Cancellation request", id)
		}
		s.cfg.Log.Error("Failed to accept cancellation request", "id", id, "error", err)
		return apperrors.Internal("Failed to accept cancellation request", err)
	}

	s.recorder.Record(ctx, audit.ActionCancellationAccepted, actor, id, request.BookingID)
	return nil
}

// Reject discards the request document outright; the booking it points
// at is left untouched.
func (s *cancellationService) Reject(ctx context.Context, id, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, cancellationserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Cancellation request", id)
		}
		s.cfg.Log.Error("Failed to reject cancellation request", "id", id, "error", err)
		return apperrors.Internal("Failed to reject cancellation request", err)
	}

	s.recorder.Record(ctx, audit.ActionCancellationRejected, actor, id, "")
	return nil
}
