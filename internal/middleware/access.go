package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/access"
	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/logger"
	"github.com/mvc-is/portal/internal/metrics"
)

const identityKey = "identity"

// AccessRouter resolves the session of every request and redirects it to the
// dashboard its department owns. Session failures count as "not signed in".
func AccessRouter(sessions auth.SessionProvider, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	log = logger.OrNop(log)
	return func(c *gin.Context) {
		// 1. --- Resolve the session ---
		id, err := sessions.Resolve(c.Request)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				log.Debug("session rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
			id = nil
		}

		// 2. --- Decide ---
		d := access.Decide(c.Request.URL.Path, id)
		m.ObserveAccess(d.Outcome.String())

		if d.Redirect() {
			loc := d.Location
			if q := c.Request.URL.RawQuery; q != "" {
				loc += "?" + q
			}
			c.Redirect(http.StatusTemporaryRedirect, loc)
			c.Abort()
			return
		}

		// 3. --- Attach the identity for the handlers ---
		if id != nil {
			c.Set(identityKey, id)
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by AccessRouter.
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*auth.Identity)
	return id, ok && id != nil
}

// RequireIdentity aborts with 401 when no identity is attached. It guards
// API routes that live outside the dashboard namespaces.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		c.Next()
	}
}
