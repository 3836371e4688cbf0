package auth

import (
	"net/http"
	"strings"

	apperrors "courtsync/pkg/errors"
	httputil "courtsync/pkg/http"
	"courtsync/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// Middleware guards console routes behind a valid, unrevoked session.
type Middleware struct {
	tokens  *JWTManager
	service AuthService
	log     *logger.Logger
}

func NewMiddleware(tokens *JWTManager, service AuthService, log *logger.Logger) *Middleware {
	return &Middleware{
		tokens:  tokens,
		service: service,
		log:     log,
	}
}

// Protect wraps a route so it only runs with validated claims in the
// request context.
func (m *Middleware) Protect(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := m.authenticate(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)), ps)
	}
}

func (m *Middleware) authenticate(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.Unauthorized("Missing Authorization header")
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, apperrors.Unauthorized("Authorization header must be a Bearer token")
	}

	claims, err := m.tokens.Parse(token)
	if err != nil {
		m.log.Debug("Rejected session token", "error", err)
		return nil, apperrors.Unauthorized("Invalid or expired session")
	}

	if m.service.Revoked(claims) {
		return nil, apperrors.Unauthorized("Session has been signed out")
	}

	return claims, nil
}
