package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKeyReadOnly exposes read-only mode to templates.
const ContextKeyReadOnly = "read_only"

const readOnlyMessage = "The library is in read-only mode"

// ReadOnly blocks write operations when enabled. Safe methods are always
// allowed.
type ReadOnly struct {
	enabled bool
}

// NewReadOnly creates the read-only middleware.
func NewReadOnly(enabled bool) *ReadOnly {
	return &ReadOnly{enabled: enabled}
}

// IsEnabled returns whether read-only mode is active.
func (m *ReadOnly) IsEnabled() bool {
	return m.enabled
}

// Handler returns a gin middleware that rejects writes with 403.
func (m *ReadOnly) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyReadOnly, m.enabled)

		if !m.enabled || isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		if wantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     readOnlyMessage,
				"code":      "read_only",
				"read_only": true,
			})
			return
		}

		c.String(http.StatusForbidden, readOnlyMessage)
		c.Abort()
	}
}
