package handler

import (
	"net/http"

	"courtsync/internal/auth"
	"courtsync/internal/events/service"
	apperrors "courtsync/pkg/errors"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"
	"courtsync/pkg/middleware"
	"courtsync/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type EventHandler struct {
	service service.EventService
	guard   *auth.Middleware
	log     *logger.Logger
}

func NewEventHandler(service service.EventService, guard *auth.Middleware, log *logger.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *EventHandler) GetPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pending, err := h.service.Pending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, pending, len(pending))
}

func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stream, err := httputil.NewStream(w)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.service.WatchPending(r.Context(), func(pending []model.EventRequest) {
		if sendErr := stream.Send(httputil.EventSnapshot, httputil.ListResponse{Data: pending, Count: len(pending)}); sendErr != nil {
			h.log.Debug("Dropped event snapshot frame",
				"request_id", middleware.RequestID(r.Context()),
				"error", sendErr,
			)
		}
	})
	if err != nil {
		h.log.Error("Event feed failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		stream.SendError("Live event feed failed")
	}
}

func (h *EventHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Approve(r.Context(), id, auth.ActorFromContext(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EventHandler) Decline(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Decline(r.Context(), id, auth.ActorFromContext(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EventHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/events", h.guard.Protect(h.GetPending))
	router.GET("/api/v1/events/stream", h.guard.Protect(h.Stream))
	router.POST("/api/v1/events/id/:id/approve", h.guard.Protect(h.Approve))
	router.POST("/api/v1/events/id/:id/decline", h.guard.Protect(h.Decline))
}
