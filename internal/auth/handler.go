package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "courtsync/pkg/errors"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

type credentialsPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type Handler struct {
	service    AuthService
	middleware *Middleware
	validate   *validator.Validate
	log        *logger.Logger
}

func NewHandler(service AuthService, middleware *Middleware, log *logger.Logger) *Handler {
	return &Handler{
		service:    service,
		middleware: middleware,
		validate:   validator.New(),
		log:        log,
	}
}

func (h *Handler) decodeCredentials(r *http.Request) (*credentialsPayload, error) {
	var payload credentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, apperrors.InvalidInput("Invalid request body")
	}

	if err := h.validate.Struct(&payload); err != nil {
		details := map[string]any{}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return nil, apperrors.Validation("Invalid credentials payload", details)
	}

	return &payload, nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, err := h.decodeCredentials(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, session)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload, err := h.decodeCredentials(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, session)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.service.Logout(ClaimsFromContext(r.Context()))
	httputil.WriteNoContent(w)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims := ClaimsFromContext(r.Context())
	httputil.WriteSuccess(w, map[string]any{
		"userId": claims.UserID,
		"email":  claims.Email,
	})
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/register", h.Register)
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/logout", h.middleware.Protect(h.Logout))
	router.GET("/api/v1/auth/session", h.middleware.Protect(h.Session))
}
