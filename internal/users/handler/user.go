package handler

import (
	"net/http"

	"courtsync/internal/auth"
	"courtsync/internal/users/service"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"
	"courtsync/pkg/middleware"
	"courtsync/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type UserHandler struct {
	service service.UserService
	guard   *auth.Middleware
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, guard *auth.Middleware, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

func (h *UserHandler) GetDirectory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.Directory(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteList(w, users, len(users))
}

func (h *UserHandler) Stream(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stream, err := httputil.NewStream(w)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	err = h.service.WatchDirectory(r.Context(), func(users []model.User) {
		if sendErr := stream.Send(httputil.EventSnapshot, httputil.ListResponse{Data: users, Count: len(users)}); sendErr != nil {
			h.log.Debug("Dropped directory snapshot frame",
				"request_id", middleware.RequestID(r.Context()),
				"error", sendErr,
			)
		}
	})
	if err != nil {
		h.log.Error("Directory feed failed",
			"request_id", middleware.RequestID(r.Context()),
			"error", err,
		)
		stream.SendError("Live directory feed failed")
	}
}

func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, stats)
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users", h.guard.Protect(h.GetDirectory))
	router.GET("/api/v1/users/stream", h.guard.Protect(h.Stream))
	router.GET("/api/v1/stats", h.guard.Protect(h.GetStats))
}
