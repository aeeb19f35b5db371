package api

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const csrfCookieName = "csrf_token"

func issueCSRFToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := uuid.NewString()
		secure := os.Getenv("GIN_MODE") == "release"
		// readable by the frontend so it can echo the header back
		c.SetCookie(csrfCookieName, token, 3600, "/", "", secure, false)
		c.JSON(http.StatusOK, gin.H{"csrf_token": token})
	}
}

// CSRFMiddleware enforces the double-submit check on state-changing
// requests: the X-CSRF-Token header must match the csrf_token cookie.
// The Stripe webhook route sits outside this group; signatures cover it.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		header := c.GetHeader("X-CSRF-Token")
		cookie, err := c.Cookie(csrfCookieName)
		if err != nil || header == "" || header != cookie {
			c.JSON(http.StatusForbidden, gin.H{"error": "CSRF token mismatch"})
			c.Abort()
			return
		}
		c.Next()
	}
}
