package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mvc-is/portal/internal/accounts"
	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/middleware"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handlers holds the dependencies shared by every page and API handler.
type Handlers struct {
	DB       *gorm.DB
	Store    *inventory.Store
	Accounts *accounts.Service
	Sessions *auth.CookieSessions
	Cookie   CookieConfig
	Log      *zap.Logger
	Now      func() time.Time
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// identity returns the signed-in user or aborts with 401.
func (h *Handlers) identity(c *gin.Context) (*auth.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
		return nil, false
	}
	return id, true
}

// respondError maps a domain error to the JSON error body.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var (
		authErr  *accounts.AuthError
		valErr   *inventory.ValidationError
		storeErr *inventory.StoreError
	)
	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": authErr.Message})
	case errors.As(err, &valErr):
		body := gin.H{"error": valErr.Error()}
		if valErr.Field != "" {
			body["field"] = valErr.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &storeErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": storeErr.Error()})
	default:
		if h.Log != nil {
			h.Log.Error("unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
	}
}

// Viewer is the signed-in user as shown in a page header.
type Viewer struct {
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	Initials    string `json:"initials"`
}

func newViewer(id *auth.Identity, fallbackName, fallbackRole string) Viewer {
	v := Viewer{DisplayName: fallbackName, Role: fallbackRole}
	if id != nil && strings.TrimSpace(id.FullName) != "" {
		v.DisplayName = strings.TrimSpace(id.FullName)
	}
	if id != nil && strings.TrimSpace(id.Department) != "" {
		v.Role = strings.TrimSpace(id.Department)
	}
	v.Initials = initials(v.DisplayName)
	return v
}

// initials takes the first letter of the first two words, upper-cased.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)
		out = append(out, unicode.ToUpper(r[0]))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
