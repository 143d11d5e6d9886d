package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gu00col/ross-sub000/internal/store"
)

type fakeResolver struct {
	token string
	user  *store.User
}

func (f *fakeResolver) UserForToken(ctx context.Context, token string) (*store.User, error) {
	if token == f.token {
		return f.user, nil
	}
	return nil, errors.New("invalid session")
}

func sessionTestHandler(t *testing.T) (http.Handler, *store.User) {
	t.Helper()
	user := &store.User{ID: 7, Email: "ana@example.com", Name: "Ana"}
	resolver := &fakeResolver{token: "tok-valid", user: user}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, user.ID, u.ID)
		w.WriteHeader(http.StatusOK)
	})
	return RequireSession(resolver, "session")(next), user
}

func TestRequireSession_ValidCookie(t *testing.T) {
	h, _ := sessionTestHandler(t)

	req := httptest.NewRequest("GET", "/contracts", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok-valid"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSession_PageRedirectsToLogin(t *testing.T) {
	h, _ := sessionTestHandler(t)

	for _, req := range []*http.Request{
		httptest.NewRequest("GET", "/contracts", nil),
		func() *http.Request {
			r := httptest.NewRequest("GET", "/contracts/c-1", nil)
			r.AddCookie(&http.Cookie{Name: "session", Value: "tok-expired"})
			return r
		}(),
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	}
}

func TestRequireSession_APIGetsJSON401(t *testing.T) {
	h, _ := sessionTestHandler(t)

	req := httptest.NewRequest("GET", "/api/contracts/c-1/report", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())

	req = httptest.NewRequest("GET", "/api/contracts/c-1/report", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok-expired"})
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
