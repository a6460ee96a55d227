package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/pkg/view"
)

// RequireAuth lets logged-in admins through.
// - SSR: flash + redirect to /login?return_to=...
// - JSON: 401
func RequireAuth(flashCodec *flash.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); ok {
			c.Next()
			return
		}

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "authentication required",
				"request_id": GetRequestID(c),
			})
			return
		}

		returnTo := c.Request.URL.RequestURI()
		SetFlashCookie(c, flashCodec, view.Flash{
			Kind:    view.FlashWarning,
			Message: "Please log in to continue.",
		})

		c.Redirect(http.StatusFound, "/login?return_to="+url.QueryEscape(returnTo))
		c.Abort()
	}
}
