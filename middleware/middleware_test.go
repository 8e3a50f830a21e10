package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/internal/auth"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type siteRepo struct{ sites []site.Site }

func (r *siteRepo) GetByID(_ context.Context, id uint) (*site.Site, error) {
	for i := range r.sites {
		if r.sites[i].ID == id {
			return &r.sites[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *siteRepo) GetByDomain(_ context.Context, domain string) (*site.Site, error) {
	for i := range r.sites {
		if r.sites[i].Domain == domain {
			return &r.sites[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *siteRepo) FirstOrCreate(ctx context.Context, domain, name string) (*site.Site, error) {
	if s, err := r.GetByDomain(ctx, domain); err == nil {
		return s, nil
	}
	r.sites = append(r.sites, site.Site{ID: uint(len(r.sites) + 1), Domain: domain, Name: name})
	return &r.sites[len(r.sites)-1], nil
}

func TestSiteScope(t *testing.T) {
	repo := &siteRepo{sites: []site.Site{{ID: 1, Domain: "seneca.kz"}, {ID: 2, Domain: "partners.seneca.kz"}}}
	svc, err := site.NewService(context.Background(), repo, "seneca.kz", "Seneca")
	require.NoError(t, err)

	r := gin.New()
	r.Use(SiteScope(svc))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"site": SiteID(c)})
	})

	cases := []struct {
		name   string
		host   string
		header string
		status int
		body   string
	}{
		{"default", "localhost:8080", "", http.StatusOK, `{"site":1}`},
		{"host", "partners.seneca.kz", "", http.StatusOK, `{"site":2}`},
		{"header wins", "seneca.kz", "2", http.StatusOK, `{"site":2}`},
		{"unknown header", "seneca.kz", "99", http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Host = tc.host
			if tc.header != "" {
				req.Header.Set("X-Site-ID", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				assert.JSONEq(t, tc.body, w.Body.String())
			}
		})
	}
}

type staffRepo struct{ users []*auth.StaffUser }

func (r *staffRepo) Create(_ context.Context, u *auth.StaffUser) error {
	u.ID = uint(len(r.users) + 1)
	r.users = append(r.users, u)
	return nil
}

func (r *staffRepo) FindByUsername(_ context.Context, username string) (*auth.StaffUser, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *staffRepo) FindByID(_ context.Context, id uint) (*auth.StaffUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestStaffAuth(t *testing.T) {
	svc := auth.NewService(&staffRepo{}, "secret", time.Hour)
	_, err := svc.CreateStaff(context.Background(), "ops", "Ops", "password123")
	require.NoError(t, err)
	tok, err := svc.Login(context.Background(), auth.LoginInput{Username: "ops", Password: "password123"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(StaffAuth(svc))
	r.GET("/", func(c *gin.Context) {
		id := StaffID(c)
		require.NotNil(t, id)
		c.JSON(http.StatusOK, gin.H{"staff": *id})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"staff":1}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tok.AccessToken})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"staff":1}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuthSendsBrowsersToLogin(t *testing.T) {
	svc := auth.NewService(&staffRepo{}, "secret", time.Hour)
	r := gin.New()
	r.Use(StaffAuth(svc))
	r.GET("/admin/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func newEngine(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(trusted))
	return r
}

func TestClientIP(t *testing.T) {
	ipOf := func(r *gin.Engine, remote, xff string) string {
		r.Use(ClientIP())
		r.GET("/", func(c *gin.Context) {
			c.String(http.StatusOK, GetIPFromContext(c))
		})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", xff)
		req.Header.Set("X-Real-IP", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Body.String()
	}

	// direct callers cannot pick their own address
	assert.Equal(t, "198.51.100.4", ipOf(newEngine(t, nil), "198.51.100.4:5555", "203.0.113.7"))
	// the load balancer's forwarding header is honoured
	assert.Equal(t, "203.0.113.7", ipOf(newEngine(t, []string{"10.0.0.0/8"}), "10.0.0.2:5555", "203.0.113.7"))
}

func TestRateLimiterIgnoresSpoofedForwardingHeaders(t *testing.T) {
	r := newEngine(t, nil)
	r.Use(RateLimiter(1, nil))
	r.POST("/api/applications", func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/applications", nil)
		req.RemoteAddr = "198.51.100.9:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{
		http.StatusCreated,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRateLimiterMemoryStore(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(2, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
