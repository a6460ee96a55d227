// Package http assembles the gin engine of the admin dashboard.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/http/handlers"
	"mondedesparfum.com/admin/internal/http/handlers/admin"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/metrics"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/internal/session"
)

// maxMultipartMemory keeps a full product upload in memory.
const maxMultipartMemory = 32 << 20

type Deps struct {
	Log      *slog.Logger
	API      *apiclient.Client
	Sessions session.Store
	Flash    *flash.Codec
	Tables   *datatable.Registry
	Debounce *remoteselect.Debouncer
	Metrics  *metrics.Metrics

	ImageMaxWidth uint
	MediaBaseURL  string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.Metrics(d.Metrics),
		middleware.ErrorHandler(d.Log, render.ErrorPage),
		middleware.FlashMiddleware(d.Flash),
		middleware.Session(d.Sessions, d.Log),
	)

	r.GET("/healthz", handlers.Healthz)
	r.GET("/", func(c *gin.Context) { c.Redirect(nethttp.StatusFound, "/admin") })

	auth := handlers.NewAuthHandlers(d.API, d.Flash, d.Tables, d.Log)
	guest := r.Group("", middleware.RedirectIfAuthenticated("/admin"))
	guest.GET("/login", auth.LoginGet)
	guest.POST("/login", auth.LoginPost)
	r.POST("/logout", auth.Logout)

	protected := r.Group("/admin", middleware.RequireAuth(d.Flash))
	protected.GET("", handlers.NewDashboardHandler(d.API, d.Log).Get)
	admin.Register(protected, &admin.Deps{
		API:           d.API,
		Flash:         d.Flash,
		Tables:        d.Tables,
		Debounce:      d.Debounce,
		Log:           d.Log,
		ImageMaxWidth: d.ImageMaxWidth,
		MediaBaseURL:  d.MediaBaseURL,
	})

	r.NoRoute(func(c *gin.Context) {
		render.ErrorPage(c, nethttp.StatusNotFound, "The page you are looking for does not exist.")
	})
	r.NoMethod(func(c *gin.Context) {
		render.ErrorPage(c, nethttp.StatusMethodNotAllowed, "This action is not allowed here.")
	})
	return r
}
