package handler

import (
	"net/http"

	"courtsync/internal/auth"
	"courtsync/internal/courts/service"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"
	"courtsync/pkg/middleware"
	"courtsync/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type CourtHandler struct {
	service service.CourtService
	guard   *auth.Middleware
	log     *logger.Logger
}

func NewCourtHandler(service service.CourtService, guard *auth.Middleware, log *logger.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *CourtHandler) GetOccupancy(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	board, err := h.service.Occupancy(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, board)
}

func (h *CourtHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stream, err := httputil.NewStream(w)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.service.WatchOccupancy(r.Context(), func(board *model.OccupancyBoard) {
		if sendErr := stream.Send(httputil.EventSnapshot, board); sendErr != nil {
			h.log.Debug("Dropped occupancy snapshot frame",
				"request_id", middleware.RequestID(r.Context()),
				"error", sendErr,
			)
		}
	})
	if err != nil {
		h.log.Error("Occupancy feed failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		stream.SendError("Live occupancy feed failed")
	}
}

func (h *CourtHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/courts", h.guard.Protect(h.GetOccupancy))
	router.GET("/api/v1/courts/stream", h.guard.Protect(h.Stream))
}
