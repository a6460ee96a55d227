// Package render writes server-rendered pages and redirects.
package render

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/pkg/view"
	"mondedesparfum.com/admin/templates"
)

// Page renders the named page into a buffer first so a template error can
// still become a 500 instead of a half-written body.
func Page(c *gin.Context, status int, name string, data any) {
	if err := middleware.SaveSession(c); err != nil {
		_ = c.Error(err)
	}

	var buf bytes.Buffer
	if err := templates.Pages.Render(&buf, name, data); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Layout fills the shared part of every page model.
func Layout(c *gin.Context, title, active string) view.Layout {
	l := view.Layout{
		Title:     title,
		Active:    active,
		RequestID: middleware.GetRequestID(c),
		Flash:     middleware.GetFlash(c),
		CSRFField: middleware.CSRFField(c),
		CSRFToken: middleware.GetCSRFToken(c),
	}
	if u, ok := middleware.CurrentUser(c); ok {
		l.UserName = u.DisplayName()
		if l.UserName == "" {
			l.UserName = u.Username
		}
		if l.UserName == "" {
			l.UserName = "Admin"
		}
		l.Nav = view.Nav
	}
	return l
}

func Redirect(c *gin.Context, location string) {
	if err := middleware.SaveSession(c); err != nil {
		_ = c.Error(err)
	}
	c.Redirect(http.StatusFound, location)
}
