package middleware

import (
	"github.com/gin-gonic/gin"
)

const ContextClientIP = "client_ip"

// ClientIP stores the caller address for audit records. It relies on gin's
// ClientIP, which honours forwarding headers only from the engine's trusted
// proxies (see TRUSTED_PROXIES).
func ClientIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, c.ClientIP())
		c.Next()
	}
}

// GetIPFromContext returns the address captured by ClientIP.
func GetIPFromContext(c *gin.Context) string {
	if ip, exists := c.Get(ContextClientIP); exists {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return c.ClientIP()
}
