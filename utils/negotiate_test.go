package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestWantsJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		url    string
		accept string
		want   bool
	}{
		{"/r", "", false},
		{"/r", "text/html,application/xhtml+xml", false},
		{"/r?format=json", "", true},
		{"/r?format=JSON", "text/html", true},
		{"/r", "application/json", true},
		{"/r?format=html", "application/json; charset=utf-8", true},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.accept != "" {
			c.Request.Header.Set("Accept", tc.accept)
		}
		assert.Equal(t, tc.want, WantsJSON(c), "%s accept=%q", tc.url, tc.accept)
	}
}

func TestLocalReferer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		referer string
		want    string
	}{
		{"", "/admin/"},
		{"http://cms.seneca.kz/admin/api/proposals?page=2", "/admin/api/proposals?page=2"},
		{"https://CMS.seneca.kz/admin/reports/dead-links", "/admin/reports/dead-links"},
		{"/admin/proposals/3", "/admin/proposals/3"},
		{"https://evil.example/phish", "/admin/"},
		{"//evil.example/phish", "/admin/"},
		{"javascript:alert(1)", "/admin/"},
		{"/\\evil.example", "/admin/"},
		{"admin/relative", "/admin/"},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "http://cms.seneca.kz/admin/proposals/3/generate", nil)
		if tc.referer != "" {
			c.Request.Header.Set("Referer", tc.referer)
		}
		assert.Equal(t, tc.want, LocalReferer(c, "/admin/"), tc.referer)
	}
}
