package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/AnshRaj112/lingua-backend/internal/config"
	"github.com/AnshRaj112/lingua-backend/internal/middleware"
	"github.com/AnshRaj112/lingua-backend/internal/models"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

const testSecret = "test-secret"

type fakePresence struct {
	mu      sync.Mutex
	upserts []services.PresenceUser
	err     error
	token   string
}

func (f *fakePresence) UpsertUser(_ context.Context, u services.PresenceUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, u)
	return f.err
}

func (f *fakePresence) CreateToken(userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.token + ":" + userID, nil
}

func (f *fakePresence) calls() []services.PresenceUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]services.PresenceUser(nil), f.upserts...)
}

type authFixture struct {
	handler  *AuthHandler
	store    *services.MemoryUserStore
	presence *fakePresence
	tokens   *services.TokenIssuer
	logs     *observer.ObservedLogs
	logger   *zap.Logger
}

func newAuthFixture(t *testing.T, production bool) *authFixture {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	store := services.NewMemoryUserStore()
	presence := &fakePresence{token: "chat"}
	cfg := config.AuthConfig{TokenSecret: testSecret, IsProduction: production}
	tokens := services.NewTokenIssuer(cfg.TokenSecret)

	return &authFixture{
		handler:  NewAuthHandler(store, tokens, presence, cfg, logger),
		store:    store,
		presence: presence,
		tokens:   tokens,
		logs:     logs,
		logger:   logger,
	}
}

func postJSON(h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func postJSONAs(h http.HandlerFunc, user *models.User, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// signup registers a user through the handler and returns the stored record.
func (f *authFixture) signup(t *testing.T, email, password, fullName string) *models.User {
	t.Helper()
	body, err := json.Marshal(SignupRequest{Email: email, Password: password, FullName: fullName})
	require.NoError(t, err)

	rec := postJSON(f.handler.Signup, "/api/auth/signup", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	u, err := f.store.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	return u
}
