package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AnshRaj112/lingua-backend/internal/models"
	"github.com/AnshRaj112/lingua-backend/internal/services"
)

func newGate(t *testing.T) (http.Handler, *services.MemoryUserStore, *services.TokenIssuer, **models.User) {
	t.Helper()

	store := services.NewMemoryUserStore()
	tokens := services.NewTokenIssuer("gate-secret")

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		seen = u
		w.WriteHeader(http.StatusNoContent)
	})
	return ProtectRoute(tokens, store, zap.NewNop())(next), store, tokens, &seen
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
	}
	return r
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"].(string)
}

func TestProtectRoute_InjectsUserWithoutPassword(t *testing.T) {
	gate, store, tokens, seen := newGate(t)

	u := &models.User{Email: "ana@example.com", FullName: "Ana", Password: "$argon2id$hash"}
	require.NoError(t, store.Create(context.Background(), u))
	tok, _, err := tokens.Issue(u.ID.Hex())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, requestWithCookie(tok))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, *seen)
	assert.Equal(t, u.ID, (*seen).ID)
	assert.Empty(t, (*seen).Password)
}

func TestProtectRoute_Rejections(t *testing.T) {
	gate, store, tokens, _ := newGate(t)

	gone := primitive.NewObjectID()
	goneTok, _, err := tokens.Issue(gone.Hex())
	require.NoError(t, err)

	notHexTok, _, err := tokens.Issue("not-an-object-id")
	require.NoError(t, err)

	forged, _, err := services.NewTokenIssuer("other-secret").Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	cases := []struct {
		name    string
		cookie  string
		message string
	}{
		{"no cookie", "", "Unauthorized - No token provided"},
		{"garbage", "abc.def.ghi", "Unauthorized - Invalid token"},
		{"wrong secret", forged, "Unauthorized - Invalid token"},
		{"not an object id", notHexTok, "Unauthorized - Invalid token"},
		{"user deleted", goneTok, "Unauthorized - User not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, requestWithCookie(tc.cookie))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tc.message, messageOf(t, rec))
		})
	}

	t.Run("store down", func(t *testing.T) {
		store.Err = errors.New("no reachable servers")
		defer func() { store.Err = nil }()

		tok, _, err := tokens.Issue(primitive.NewObjectID().Hex())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, requestWithCookie(tok))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "reachable")
	})
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}
