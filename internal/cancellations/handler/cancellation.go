package handler

import (
	"net/http"

	"courtsync/internal/auth"
	"courtsync/internal/cancellations/service"
	apperrors "courtsync/pkg/errors"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"
	"courtsync/pkg/middleware"
	"courtsync/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CancellationHandler struct {
	service service.CancellationService
	guard   *auth.Middleware
	log     *logger.Logger
}

func NewCancellationHandler(service service.CancellationService, guard *auth.Middleware, log *logger.Logger) *CancellationHandler {
	return &CancellationHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *CancellationHandler) GetPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pending, err := h.service.Pending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, pending, len(pending))
}

// Stream pushes the pending queue as a full snapshot on every change.
// The subscription lives exactly as long as the client connection.
func (h *CancellationHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stream, err := httputil.NewStream(w)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.service.WatchPending(r.Context(), func(pending []model.CancellationRequest) {
		if sendErr := stream.Send(httputil.EventSnapshot, httputil.ListResponse{Data: pending, Count: len(pending)}); sendErr != nil {
			h.log.Debug("Dropped cancellation snapshot frame",
				"request_id", middleware.RequestID(r.Context()),
				"error", sendErr,
			)
		}
	})
	if err != nil {
		h.log.Error("Cancellation feed failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		stream.SendError("Live cancellation feed failed")
	}
}

func (h *CancellationHandler) Accept(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Accept(r.Context(), id, auth.ActorFromContext(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CancellationHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		httputil.WriteError(w, apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Reject(r.Context(), id, auth.ActorFromContext(r.Context())); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CancellationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/cancellations", h.guard.Protect(h.GetPending))
	router.GET("/api/v1/cancellations/stream", h.guard.Protect(h.Stream))
	router.POST("/api/v1/cancellations/id/:id/accept", h.guard.Protect(h.Accept))
	router.POST("/api/v1/cancellations/id/:id/reject", h.guard.Protect(h.Reject))
}
