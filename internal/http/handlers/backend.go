package handlers

import (
	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/http/middleware"
)

// Backend returns the gateway authorized as the current admin. Anonymous
// requests get the bare client.
func Backend(c *gin.Context, api *apiclient.Client) apiclient.Doer {
	st := middleware.CurrentSession(c)
	if st == nil || st.Token() == "" {
		return api
	}
	return api.WithToken(st.Token())
}

// Owner keys per-login server state.
func Owner(c *gin.Context) string {
	if st := middleware.CurrentSession(c); st != nil {
		return st.Owner()
	}
	return ""
}
