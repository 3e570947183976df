package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader names the caller. Authentication is the gateway's job;
	// the header is trusted once a request gets past it.
	UserIDHeader = "X-User-ID"

	userIDKey = "herald.user_id"
)

// Identity resolves the calling user from X-User-ID, falling back to
// defaultUser.
func Identity(defaultUser string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if uid == "" {
			uid = defaultUser
		}
		c.Set(userIDKey, uid)
		c.Next()
	}
}

// UserID returns the user resolved by Identity.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
