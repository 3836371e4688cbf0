package service

import (
	"context"
	"errors"

	"courtsync/internal/audit"
	eventserrors "courtsync/internal/events/errors"
	"courtsync/internal/events/repository"
	"courtsync/internal/flow"
	usersrepo "courtsync/internal/users/repository"
	"courtsync/internal/watch"
	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/model"
)

type EventService interface {
	Pending(ctx context.Context) ([]model.EventRequest, error)
	WatchPending(ctx context.Context, onPending func([]model.EventRequest)) error
	Approve(ctx context.Context, id, actor string) error
	Decline(ctx context.Context, id, actor string) error
}

type eventService struct {
	repo     repository.EventRepository
	users    usersrepo.UserRepository
	recorder *audit.Recorder
	cfg      *config.Config
}

func NewEventService(
	repo repository.EventRepository,
	users usersrepo.UserRepository,
	recorder *audit.Recorder,
	cfg *config.Config,
) EventService {
	return &eventService{
		repo:     repo,
		users:    users,
		recorder: recorder,
		cfg:      cfg,
	}
}

func (s *eventService) Pending(ctx context.Context) ([]model.EventRequest, error) {
	snapshot, err := s.repo.Snapshot(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load event snapshot", "error", err)
		return nil, apperrors.Internal("Failed to load event requests", err)
	}

	return s.pendingOnly(ctx, snapshot), nil
}

func (s *eventService) WatchPending(ctx context.Context, onPending func([]model.EventRequest)) error {
	return s.repo.Watch(ctx, func(snapshot watch.Snapshot) {
		onPending(s.pendingOnly(ctx, snapshot))
	})
}

func (s *eventService) pendingOnly(ctx context.Context, snapshot watch.Snapshot) []model.EventRequest {
	pending := make([]model.EventRequest, 0, len(snapshot))
	for _, doc := range snapshot {
		request := model.NormalizeEvent(doc.ID, doc.Fields)
		if !request.Pending() {
			continue
		}
		pending = append(pending, request)
	}

	s.resolveRequesters(ctx, pending)
	return pending
}

// resolveRequesters swaps id placeholders for real names in one batched
// users lookup. A lookup failure is logged and the placeholders stay;
// the queue still renders.
func (s *eventService) resolveRequesters(ctx context.Context, pending []model.EventRequest) {
	var ids []string
	for _, request := range pending {
		if request.RequesterFromID {
			ids = append(ids, request.UserID)
		}
	}
	if len(ids) == 0 {
		return
	}

	names, err := s.users.NamesByID(ctx, ids)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve requester names", "ids", len(ids), "error", err)
		return
	}

	for i := range pending {
		if !pending[i].RequesterFromID {
			continue
		}
		if name, ok := names[pending[i].UserID]; ok {
			pending[i].RequesterName = name
			pending[i].RequesterFromID = false
		}
	}
}

func (s *eventService) Approve(ctx context.Context, id, actor string) error {
	return s.setStatus(ctx, id, model.EventStatusApproved, audit.ActionEventApproved, actor)
}

func (s *eventService) Decline(ctx context.Context, id, actor string) error {
	return s.setStatus(ctx, id, model.EventStatusDeclined, audit.ActionEventDeclined, actor)
}

func (s *eventService) setStatus(ctx context.Context, id, status, action, actor string) error {
	sequence := flow.NewSequence("set-event-status",
		flow.NewStep("update-status", func(ctx context.Context) error {
			return s.repo.UpdateStatus(ctx, id, status)
		}),
	)

	if err := sequence.Execute(ctx); err != nil {
		if errors.Is(err, eventserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Event request", id)
		}
		s.cfg.Log.Error("Failed to update event status", "id", id, "status", status, "error", err)
		return apperrors.Internal("Failed to update event request", err)
	}

	s.recorder.Record(ctx, action, actor, id, status)
	return nil
}
