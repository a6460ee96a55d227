package render

import (
	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/pkg/view"
)

func RedirectWithFlash(c *gin.Context, codec *flash.Codec, location string, kind view.FlashKind, msg string) {
	middleware.SetFlashCookie(c, codec, view.Flash{Kind: kind, Message: msg})
	Redirect(c, location)
}

// RedirectNotice carries a notification built elsewhere, e.g. by a form
// submission.
func RedirectNotice(c *gin.Context, codec *flash.Codec, location string, f view.Flash) {
	middleware.SetFlashCookie(c, codec, f)
	Redirect(c, location)
}
