package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/catalog/internal/config"
)

const basicAuthRealm = `Basic realm="library", charset="UTF-8"`

// WriteGuard requires HTTP basic auth for every non-safe request when a
// password hash is configured. Reads stay public.
type WriteGuard struct {
	username     string
	passwordHash []byte
}

// NewWriteGuard builds the guard. It returns nil when no hash is configured.
func NewWriteGuard(cfg config.Auth) *WriteGuard {
	if cfg.PasswordHash == "" {
		return nil
	}
	return &WriteGuard{
		username:     cfg.Username,
		passwordHash: []byte(cfg.PasswordHash),
	}
}

// HashPassword returns the bcrypt hash expected in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Handler returns the gin middleware. A nil guard lets everything through.
func (g *WriteGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g == nil || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok || !g.valid(username, password) {
			c.Header("WWW-Authenticate", basicAuthRealm)
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Authentication required",
					"code":  "unauthorized",
				})
				return
			}
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}

func (g *WriteGuard) valid(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := bcrypt.CompareHashAndPassword(g.passwordHash, []byte(password)) == nil
	return userOK && passOK
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}
