package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS tells the browser that the configured frontend origin may call us.
func CORS(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Allow only the configured frontend
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		// 2. Allow credentials (the session cookie)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		// 3. Allow the headers and methods we use
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		// 4. Answer the preflight
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
