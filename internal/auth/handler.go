package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName carries the access token for the browser-facing admin pages.
const CookieName = "seneca_session"

const cookiePath = "/admin"

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// LoginPage renders the admin sign-in form.
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

// Login godoc
// @Summary Staff login
// @Description Returns the access token and also sets it as an HttpOnly session cookie.
// @Description A form post (from the admin login page) is redirected to /admin/ instead.
// @Tags Auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} map[string]string
// @Router /admin/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	fromForm := c.ContentType() == gin.MIMEPOSTForm

	var req LoginInput
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, fromForm, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInactive) {
			h.loginFailed(c, fromForm, http.StatusUnauthorized, err.Error())
			return
		}
		h.loginFailed(c, fromForm, http.StatusInternalServerError, "login failed")
		return
	}

	setSessionCookie(c, resp.AccessToken, int(time.Until(resp.ExpiresAt).Seconds()))
	if fromForm {
		c.Redirect(http.StatusSeeOther, "/admin/")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) loginFailed(c *gin.Context, fromForm bool, status int, msg string) {
	if fromForm {
		c.HTML(status, "admin_login.html", gin.H{"Error": msg})
		return
	}
	c.JSON(status, gin.H{"error": msg})
}

// Logout godoc
// @Summary Staff logout
// @Description Clears the session cookie.
// @Tags Auth
// @Success 204
// @Router /admin/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	if c.ContentType() == gin.MIMEPOSTForm {
		c.Redirect(http.StatusSeeOther, "/admin/login")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the staff user attached by the auth middleware.
func (h *Handler) Me(c *gin.Context) {
	staff, ok := c.Get("staff")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, staff)
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	secure := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, maxAge, cookiePath, "", secure, true)
}
