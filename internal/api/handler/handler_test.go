package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minisocial/internal/app/service"
	"minisocial/internal/common/security"
	"minisocial/internal/testutil/memrepo"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupRouter(t *testing.T) (chi.Router, *memrepo.Store) {
	t.Helper()
	logger := setupTestLogger()
	store := memrepo.New()

	authService := service.NewAuthService(store.Users(), security.NewTokenIssuer([]byte("test-secret")))
	postService := service.NewPostService(store.Posts(), nil, logger)

	r := chi.NewRouter()
	NewAuthHandler(authService, logger).RegisterRoutes(r)
	NewPostHandler(postService, logger).RegisterRoutes(r)
	return r, store
}

func doJSON(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func signup(t *testing.T, h http.Handler, username, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h, http.MethodPost, "/signup", map[string]string{
		"username": username, "email": email, "password": password,
	})
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	r, store := setupRouter(t)

	w := signup(t, r, "alice", "a@x.com", "pw")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, map[string]interface{}{"message": service.MsgUserRegistered}, decode(t, w))
	assert.Equal(t, 1, store.Users().Count())
}

func TestAuthHandler_Signup_MissingField(t *testing.T) {
	r, store := setupRouter(t)

	w := signup(t, r, "alice", "", "pw")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"message": service.MsgSignupIncomplete}, decode(t, w))
	assert.Zero(t, store.Users().Count())
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	r, _ := setupRouter(t)

	require.Equal(t, http.StatusCreated, signup(t, r, "alice", "a@x.com", "pw").Code)
	w := signup(t, r, "other", "a@x.com", "pw2")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, map[string]interface{}{"message": service.MsgEmailInUse}, decode(t, w))
}

func TestAuthHandler_Signup_InvalidJSON(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/signup", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_StoreError(t *testing.T) {
	r, store := setupRouter(t)
	store.Err = errors.New("dial tcp: connection refused")

	w := signup(t, r, "alice", "a@x.com", "pw")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body["message"], "connection refused")
}

func TestAuthHandler_Login_Success(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, signup(t, r, "alice", "a@x.com", "pw").Code)

	w := doJSON(t, r, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "pw"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp service.LoginResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, service.MsgUserLoggedIn, resp.Message)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, signup(t, r, "alice", "a@x.com", "pw").Code)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "a@x.com", password: "nope"},
		{name: "unknown email", email: "ghost@x.com", password: "pw"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/login", map[string]string{"email": tt.email, "password": tt.password})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, map[string]interface{}{"message": service.MsgInvalidCredentials}, decode(t, w))
		})
	}
}

func TestAuthHandler_Login_StoreError(t *testing.T) {
	r, store := setupRouter(t)
	store.Err = errors.New("db down")

	w := doJSON(t, r, http.MethodPost, "/login", map[string]string{"email": "a@x.com", "password": "pw"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"message": "Internal server error"}, decode(t, w))
}

func TestAuthHandler_Follow_AlwaysNotImplemented(t *testing.T) {
	r, _ := setupRouter(t)

	for _, body := range []interface{}{nil, "garbage", map[string]int{"userId": 1, "followId": 2}} {
		w := doJSON(t, r, http.MethodPost, "/follow", body)
		assert.Equal(t, http.StatusNotImplemented, w.Code)
		assert.Equal(t, map[string]interface{}{"message": "Not implemented"}, decode(t, w))
	}
}

func TestPostHandler_CreateAndList(t *testing.T) {
	r, _ := setupRouter(t)
	require.Equal(t, http.StatusCreated, signup(t, r, "alice", "a@x.com", "pw").Code)

	w := doJSON(t, r, http.MethodPost, "/post", map[string]interface{}{"userId": 1, "content": "hello"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, map[string]interface{}{"message": service.MsgPostAdded}, decode(t, w))

	w = doJSON(t, r, http.MethodGet, "/posts?userId=1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[{"id":1,"userId":1,"content":"hello"}]}`, w.Body.String())
}

func TestPostHandler_ListPosts_Empty(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/posts?userId=3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[]}`, w.Body.String())
}

func TestPostHandler_ListPosts_MissingUserIDSkipsStore(t *testing.T) {
	r, store := setupRouter(t)
	// any store access would fail with a 500
	store.Err = errors.New("store must not be touched")

	w := doJSON(t, r, http.MethodGet, "/posts", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Missing userId parameter"}, decode(t, w))
}

func TestPostHandler_UserIDAbove32Bit(t *testing.T) {
	r, store := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/posts?userId=3000000000", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"posts":[]}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/post", `{"userId": 3000000000, "content": "big"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, map[string]interface{}{"error": service.MsgUnknownOwner}, decode(t, w))
	assert.Zero(t, store.Posts().Count())
}

func TestPostHandler_ListPosts_BadUserID(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/posts?userId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandler_ListPosts_StoreError(t *testing.T) {
	r, store := setupRouter(t)
	store.Err = errors.New("boom")

	w := doJSON(t, r, http.MethodGet, "/posts?userId=1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Internal server error"}, decode(t, w))
}

func TestPostHandler_Create_UnknownOwner(t *testing.T) {
	r, store := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/post", map[string]interface{}{"userId": 42, "content": "orphan"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, map[string]interface{}{"error": service.MsgUnknownOwner}, decode(t, w))
	assert.Zero(t, store.Posts().Count())
}

func TestPostHandler_Create_StoreError(t *testing.T) {
	r, store := setupRouter(t)
	store.Err = errors.New("boom")

	w := doJSON(t, r, http.MethodPost, "/post", map[string]interface{}{"userId": 1, "content": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Internal server error"}, decode(t, w))
}

func TestPostHandler_Create_Invalid(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/post", `{"userId": "one"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/post", map[string]interface{}{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(ctx context.Context) error { return p.err }

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler(stubPinger{}, setupTestLogger())

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(stubPinger{err: errors.New("down")}, setupTestLogger())

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
}
