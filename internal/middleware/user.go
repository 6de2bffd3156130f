package middleware

import (
	"github.com/gin-gonic/gin"
)

// UserEmailHeader is the optional client-supplied identity header. It is the
// last-resort destination for receipt notifications when no profile or order
// email resolves.
const UserEmailHeader = "X-User-Email"

// UserContextMiddleware stores the caller's email identity in the request
// context when the header is present
func UserContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if email := c.GetHeader(UserEmailHeader); email != "" {
			c.Set("user_email", email)
		}
		c.Next()
	}
}

// UserEmail returns the caller email stored by UserContextMiddleware, empty
// when absent
func UserEmail(c *gin.Context) string {
	if email, exists := c.Get("user_email"); exists {
		if s, ok := email.(string); ok {
			return s
		}
	}
	return ""
}
