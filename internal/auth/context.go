package auth

import "github.com/gin-gonic/gin"

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetSalonID returns the salon the token is scoped to, or empty string.
func GetSalonID(c *gin.Context) string {
	if v, ok := c.Get("salonID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRole returns the authenticated user's role or empty Role.
func GetRole(c *gin.Context) Role {
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			return Role(s)
		}
	}
	return ""
}
