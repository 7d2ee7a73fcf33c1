package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// OptionalAuth resolves the caller's identity if a valid bearer token is
// present. Missing or invalid tokens degrade to guest treatment, never an
// error.
func OptionalAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := resolveUser(c, verifier); userID != "" {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// RequireAuth rejects requests without an established identity with 401.
func RequireAuth(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := resolveUser(c, verifier)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// resolveUser extracts and validates the token from the "Bearer <token>"
// header. Any failure yields the empty (guest) identity.
func resolveUser(c *gin.Context, verifier Verifier) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	userID, err := verifier.Verify(c.Request.Context(), parts[1])
	if err != nil {
		return ""
	}
	return userID
}

// UserID returns the authenticated user from the gin context, empty for
// guests.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
