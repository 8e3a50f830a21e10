package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/senecapartners/seneca-cms-backend/internal/auth"
)

const (
	ContextStaff   = "staff"
	ContextStaffID = "staff_id"
)

// StaffAuth requires a valid access token issued to an active staff user.
// API clients send it as a bearer header; admin pages opened in a browser
// carry it in the session cookie set at login.
func StaffAuth(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := accessToken(c)
		if token == "" {
			unauthorized(c, msg)
			return
		}

		staff, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrInactive) {
				msg = "account is inactive"
			}
			unauthorized(c, msg)
			return
		}

		c.Set(ContextStaff, staff)
		c.Set(ContextStaffID, staff.ID)
		c.Next()
	}
}

func accessToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if cookie, err := c.Cookie(auth.CookieName); err == nil && cookie != "" {
			return cookie, ""
		}
		return "", "missing Authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid Authorization header"
	}
	return strings.TrimSpace(parts[1]), ""
}

// unauthorized sends page navigations to the login form and everything
// else a JSON 401.
func unauthorized(c *gin.Context, msg string) {
	if c.Request.Method == http.MethodGet && strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, "/admin/login")
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// StaffID returns the authenticated staff id, or nil on public routes.
func StaffID(c *gin.Context) *uint {
	v, ok := c.Get(ContextStaffID)
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
