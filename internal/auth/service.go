package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/sanitizer"
)

// Session is what a signed-in client gets back: the token plus the
// identity baked into it.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(claims *Claims)
	Revoked(claims *Claims) bool
}

type authService struct {
	accounts AccountRepository
	tokens   *JWTManager
	hasher   PasswordHasher
	cfg      *config.Config

	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewAuthService(accounts AccountRepository, tokens *JWTManager, hasher PasswordHasher, cfg *config.Config) AuthService {
	return &authService{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		cfg:      cfg,
		revoked:  make(map[string]time.Time),
	}
}

func (s *authService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = sanitizer.TrimAndNormalize(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	account := &AdminUser{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperrors.Conflict("An account with this email already exists")
		}
		s.cfg.Log.Error("Failed to create admin account", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to create account", err)
	}

	return s.issue(account)
}

// Login deliberately reports the same error for an unknown email and a
// wrong password.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = sanitizer.TrimAndNormalize(email)

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to load admin account", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to sign in", err)
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	return s.issue(account)
}

func (s *authService) issue(account *AdminUser) (*Session, error) {
	userID := account.ID.Hex()

	token, err := s.tokens.Generate(userID, account.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to issue session token", "email", account.Email, "error", err)
		return nil, apperrors.Internal("Failed to issue session", err)
	}

	return &Session{
		Token:     token,
		UserID:    userID,
		Email:     account.Email,
		ExpiresAt: time.Now().UTC().Add(s.cfg.JWTSessionTTL),
	}, nil
}

// Logout puts the token's id on the revocation list until the token
// would have expired on its own. The list is in-memory: a restart
// forgets revocations, but also outlives no token for long given the
// session TTL.
func (s *authService) Logout(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}

	expiry := time.Now().UTC().Add(s.cfg.JWTSessionTTL)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.revoked[claims.ID] = expiry
}

func (s *authService) Revoked(claims *Claims) bool {
	if claims == nil || claims.ID == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	_, found := s.revoked[claims.ID]
	return found
}

func (s *authService) prune() {
	now := time.Now().UTC()
	for id, expiry := range s.revoked {
		if now.After(expiry) {
			delete(s.revoked, id)
		}
	}
}
