package utils

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// WantsJSON reports whether the caller asked for structured output with
// ?format=json or an Accept header naming application/json.
func WantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.Query("format"), "json") {
		return true
	}
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "application/json")
}

// LocalReferer returns the Referer as a path on this host, or fallback when
// it is missing or points anywhere else.
func LocalReferer(c *gin.Context, fallback string) string {
	ref := c.Request.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	if u.Host != "" && !strings.EqualFold(u.Host, c.Request.Host) {
		return fallback
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") || strings.Contains(u.Path, "\\") {
		return fallback
	}
	return (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
}
