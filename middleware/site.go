package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/senecapartners/seneca-cms-backend/internal/site"
)

const ContextSiteID = "site_id"

// SiteScope resolves the site for the request. Priority: X-Site-ID header,
// request host, default site.
func SiteScope(siteSvc *site.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := siteSvc.Resolve(c.Request.Context(), strings.TrimSpace(c.GetHeader("X-Site-ID")), c.Request.Host)
		if err != nil {
			if errors.Is(err, site.ErrUnknownSite) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown site"})
				return
			}
			log.Printf("❌ site resolution failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(ContextSiteID, s.ID)
		c.Next()
	}
}

// SiteID returns the site resolved by SiteScope. Zero means the middleware did not run.
func SiteID(c *gin.Context) uint {
	return c.GetUint(ContextSiteID)
}
