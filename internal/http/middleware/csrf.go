package middleware

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// GetCSRFToken returns the token issued by csrf.Protect for this request.
func GetCSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}

func CSRFField(c *gin.Context) template.HTML {
	return csrf.TemplateField(c.Request)
}
