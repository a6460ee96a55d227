package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RedirectIfAuthenticated keeps logged-in admins away from guest pages such
// as the login form.
func RedirectIfAuthenticated(dest string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Redirect(http.StatusFound, dest)
			c.Abort()
			return
		}
		c.Next()
	}
}
