package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dairydesk/dairydesk/internal/auth"
	"github.com/dairydesk/dairydesk/internal/shared"
)

type stubRepo struct {
	user     *auth.User
	sessions map[string]int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if s.sessions == nil {
		s.sessions = make(map[string]int64)
	}
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthRouter(t *testing.T, repo auth.Repository) (http.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	handler := auth.NewHandler(testLogger(), auth.NewService(repo), sessions)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessions.Load(req.Context(), req)
			require.NoError(t, err)
			ctx := shared.ContextWithSession(req.Context(), sess)
			next.ServeHTTP(w, req.WithContext(ctx))
			require.NoError(t, sessions.Commit(ctx, w, req, sess))
		})
	})
	r.Route("/auth", handler.MountRoutes)
	return r, sessions
}

func testUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           1,
		Email:        "owner@dairydesk.local",
		PasswordHash: string(hashed),
		Role:         shared.RoleAdmin,
		IsActive:     true,
	}
}

func TestLoginSuccess(t *testing.T) {
	repo := &stubRepo{user: testUser(t, "correct-horse")}
	router, _ := newAuthRouter(t, repo)

	body := `{"email":"owner@dairydesk.local","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var payload struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.Equal(t, int64(1), payload.ID)
	require.Equal(t, shared.RoleAdmin, payload.Role)
	require.Len(t, repo.sessions, 1, "login must register an audit session")
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: testUser(t, "correct-horse")})

	body := `{"email":"owner@dairydesk.local","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginRejectsMalformedRequest(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMeWithoutSession(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}
