package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courtsync/pkg/config"
	apperrors "courtsync/pkg/errors"
	"courtsync/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockAccountRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*AdminUser, error)
	createFunc      func(ctx context.Context, account *AdminUser) error
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*AdminUser, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, ErrAccountNotFound
}

func (m *mockAccountRepository) Create(ctx context.Context, account *AdminUser) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, account)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		JWTSecret:     "test-secret",
		JWTSessionTTL: time.Hour,
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.Generate("user-1", "admin@example.com")
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate("user-1", "admin@example.com")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestJWTManager_RejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.Generate("user-1", "admin@example.com")
	require.NoError(t, err)

	_, err = manager.Parse(token)
	assert.Error(t, err)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	hasher := NewBcryptPasswordHasher()
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	accounts := &mockAccountRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*AdminUser, error) {
			if email == "known@example.com" {
				return &AdminUser{
					ID:           primitive.NewObjectID(),
					Email:        email,
					PasswordHash: hash,
				}, nil
			}
			return nil, ErrAccountNotFound
		},
	}

	cfg := testConfig()
	service := NewAuthService(accounts, NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL), hasher, cfg)

	_, wrongPassword := service.Login(context.Background(), "known@example.com", "wrong-password")
	_, unknownEmail := service.Login(context.Background(), "nobody@example.com", "whatever-password")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLogin_IssuesUsableSession(t *testing.T) {
	hasher := NewBcryptPasswordHasher()
	hash, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	accountID := primitive.NewObjectID()
	accounts := &mockAccountRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*AdminUser, error) {
			return &AdminUser{ID: accountID, Email: email, PasswordHash: hash}, nil
		},
	}

	cfg := testConfig()
	tokens := NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL)
	service := NewAuthService(accounts, tokens, hasher, cfg)

	session, err := service.Login(context.Background(), "admin@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, accountID.Hex(), session.UserID)

	claims, err := tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	accounts := &mockAccountRepository{
		createFunc: func(ctx context.Context, account *AdminUser) error {
			return ErrEmailTaken
		},
	}

	cfg := testConfig()
	service := NewAuthService(accounts, NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL), NewBcryptPasswordHasher(), cfg)

	_, err := service.Register(context.Background(), "taken@example.com", "some-password")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConflict, apperrors.AsAppError(err).Code)
}

func TestLogout_RevokesToken(t *testing.T) {
	cfg := testConfig()
	tokens := NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL)
	service := NewAuthService(&mockAccountRepository{}, tokens, NewBcryptPasswordHasher(), cfg)

	token, err := tokens.Generate("user-1", "admin@example.com")
	require.NoError(t, err)
	claims, err := tokens.Parse(token)
	require.NoError(t, err)

	assert.False(t, service.Revoked(claims))
	service.Logout(claims)
	assert.True(t, service.Revoked(claims))
}

func TestMiddleware_ProtectEnforcesSession(t *testing.T) {
	cfg := testConfig()
	tokens := NewJWTManager(cfg.JWTSecret, cfg.JWTSessionTTL)
	service := NewAuthService(&mockAccountRepository{}, tokens, NewBcryptPasswordHasher(), cfg)
	guard := NewMiddleware(tokens, service, cfg.Log)

	var gotActor string
	protected := guard.Protect(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotActor = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		protected(rec, req, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Generate("user-1", "admin@example.com")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "admin@example.com", gotActor)
	})

	t.Run("revoked token", func(t *testing.T) {
		token, err := tokens.Generate("user-2", "other@example.com")
		require.NoError(t, err)
		claims, err := tokens.Parse(token)
		require.NoError(t, err)
		service.Logout(claims)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		protected(rec, req, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
