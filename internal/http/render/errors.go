package render

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/pkg/view"
)

// ErrorPage is the HTML renderer handed to middleware.ErrorHandler.
func ErrorPage(c *gin.Context, status int, msg string) {
	Page(c, status, "error", view.ErrorPage{
		Layout:     Layout(c, http.StatusText(status), ""),
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    msg,
	})
}
