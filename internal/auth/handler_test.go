package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(&fakeRepo{}, "secret", time.Hour)
	_, err := svc.CreateStaff(context.Background(), "ops", "Ops", "password123")
	require.NoError(t, err)

	h := NewHandler(svc)
	r := gin.New()
	r.POST("/admin/auth/login", h.Login)
	r.POST("/admin/auth/logout", h.Logout)
	return r
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login", strings.NewReader(`{"username":"ops","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accessToken"`)
	ck := sessionCookie(t, w)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, "/admin", ck.Path)
	assert.Greater(t, ck.MaxAge, 0)
}

func TestLoginFormRedirectsToAdmin(t *testing.T) {
	r := newAuthRouter(t)

	form := url.Values{"username": {"ops"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/", w.Header().Get("Location"))
	assert.NotEmpty(t, sessionCookie(t, w).Value)
}

func TestLoginWrongPasswordSetsNoCookie(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/auth/login", strings.NewReader(`{"username":"ops","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLogoutClearsCookie(t *testing.T) {
	r := newAuthRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	ck := sessionCookie(t, w)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}
