package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"palboti_backend/database"
	"palboti_backend/internal/app"
	"palboti_backend/internal/auth"
	"palboti_backend/internal/config"
	"palboti_backend/internal/email"
	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
)

type nullProvider struct{}

func (nullProvider) Send(context.Context, email.Message) error { return nil }

type testServer struct {
	router http.Handler
	db     *gorm.DB
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{}
	cfg.Server.Env = "production"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTTLMinutes = 15
	cfg.JWT.RefreshTTLDays = 7
	cfg.JWT.ResetTTLMinutes = 60
	cfg.JWT.VerifyTTLMinutes = 60

	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewTokenRepository()

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:     cfg.JWT.Secret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   time.Hour,
		VerifyTTL:  time.Hour,
	}, tokenRepo)

	mailer := email.NewMailer(nullProvider{}, email.Config{ClientURL: "http://localhost:3000"})
	svcs := app.BuildServices(cfg, tokens, mailer, userRepo, tokenRepo)
	router := app.SetupRouter(cfg, db, svcs, tokens, userRepo)

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	t.Fatal("no jwt cookie in response")
	return nil
}

func registerBody(email string) map[string]string {
	return map[string]string{"email": email, "name": "Test User", "password": "Pw1!"}
}

func TestRegisterSetsRefreshCookie(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", registerBody("worker@palboti.io"))
	require.Equal(t, http.StatusCreated, w.Code)

	cookie := refreshCookie(t, w)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		AccessToken struct {
			Token string `json:"token"`
		} `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "worker@palboti.io", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken.Token)
}

func TestRegisterPersistsVerificationTokenAfterResponse(t *testing.T) {
	s := setupServer(t)

	// A real server cancels the request context as soon as the handler
	// returns, unlike ServeHTTP against a recorder.
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	body := bytes.NewBufferString(`{"email":"bg@palboti.io","name":"Test User","password":"Pw1!"}`)
	resp, err := http.Post(srv.URL+"/api/v1/auth/register", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The verification token is written from a background goroutine whose
	// DB session must outlive the request.
	require.Eventually(t, func() bool {
		var count int64
		err := s.db.Model(&models.Token{}).
			Where("kind = ?", models.TokenKindEmailValidation).Count(&count).Error
		return err == nil && count == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRegisterValidation(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": "not-an-email", "name": "X", "password": "Pw1!",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndRefreshFlow(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", registerBody("worker@palboti.io"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email": "worker@palboti.io", "password": "Pw1!",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := refreshCookie(t, w)

	w = s.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken struct {
			Token string `json:"token"`
		} `json:"access_token"`
		RefreshToken struct {
			Token string `json:"token"`
		} `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken.Token)
	assert.Equal(t, cookie.Value, resp.RefreshToken.Token)
}

func TestRefreshWithoutCookie(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshWithForgedCookie(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, &http.Cookie{Name: "jwt", Value: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The bad cookie is cleared in the response.
	cookie := refreshCookie(t, w)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestLogoutFlow(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", registerBody("worker@palboti.io"))
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := refreshCookie(t, w)

	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Same cookie again: the row is gone.
	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No cookie at all is an idempotent no-op.
	w = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProtectedRouteRequiresBearerToken(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", registerBody("worker@palboti.io"))
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		AccessToken struct {
			Token string `json:"token"`
		} `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg.AccessToken.Token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "worker@palboti.io", me.Email)
	assert.Equal(t, "operator", me.Role)
}

func TestAdminRoutesForbiddenForOperators(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", registerBody("worker@palboti.io"))
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		AccessToken struct {
			Token string `json:"token"`
		} `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+reg.AccessToken.Token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
