package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/flash"
	"mondedesparfum.com/admin/internal/http/handlers"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/internal/shared/apperr"
	"mondedesparfum.com/admin/pkg/view"
)

// Deps is what every admin page needs.
type Deps struct {
	API           *apiclient.Client
	Flash         *flash.Codec
	Tables        *datatable.Registry
	Debounce      *remoteselect.Debouncer
	Log           *slog.Logger
	ImageMaxWidth uint
	MediaBaseURL  string
}

func (d *Deps) backend(c *gin.Context) apiclient.Doer {
	return handlers.Backend(c, d.API)
}

func (d *Deps) controller(c *gin.Context, t *datatable.Table) *datatable.Controller {
	return d.Tables.Controller(handlers.Owner(c), t, d.backend(c))
}

// list loads the table for the filters in the query string and renders it.
func (d *Deps) list(c *gin.Context, t *datatable.Table, active string) {
	ctrl := d.controller(c, t)
	filters := datatable.FromQuery(t.DefaultFilters, c.Request.URL.Query(), t.FilterKeys()...)

	snap, err := ctrl.Load(c.Request.Context(), filters)
	if err != nil && !errors.Is(err, datatable.ErrSuperseded) {
		d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "table_load_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("table", t.ID),
			slog.Any("err", err),
		)
	}
	d.renderTable(c, http.StatusOK, t, snap, active)
}

func (d *Deps) renderTable(c *gin.Context, status int, t *datatable.Table, snap datatable.Snapshot, active string) {
	render.Page(c, status, "table", view.TablePage{
		Layout:  render.Layout(c, t.Title, active),
		Heading: t.Title,
		Table:   datatable.NewView(t, snap),
	})
}

// confirmDelete asks before anything is sent to the backend.
func (d *Deps) confirmDelete(c *gin.Context, t *datatable.Table, active string) {
	id := strings.TrimSpace(c.Param("id"))
	heading := "Delete " + t.Title
	if t.Update != nil && t.Update.DeletingTitle != "" {
		heading = t.Update.DeletingTitle
	}
	render.Page(c, http.StatusOK, "confirm", view.ConfirmPage{
		Layout:  render.Layout(c, heading, active),
		Heading: heading,
		Message: "Are you sure you want to delete this record? This action cannot be undone.",
		Action:  strings.TrimRight(t.BasePath, "/") + "/" + id + "/delete",
		Cancel:  t.BasePath,
	})
}

// delete removes a row after confirmation and renders the refreshed table
// from the controller, so the list is fetched exactly once.
func (d *Deps) delete(c *gin.Context, t *datatable.Table, active, deletedMsg string) {
	id := strings.TrimSpace(c.Param("id"))
	if c.PostForm("confirm") != "1" || id == "" {
		render.Redirect(c, t.BasePath)
		return
	}

	ctrl := d.controller(c, t)
	snap, err := ctrl.Delete(c.Request.Context(), id)
	switch {
	case err == nil:
		middleware.SetFlash(c, view.Flash{Kind: view.FlashSuccess, Message: deletedMsg})
	case errors.Is(err, datatable.ErrSuperseded):
		middleware.SetFlash(c, view.Flash{Kind: view.FlashSuccess, Message: deletedMsg})
	default:
		d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "delete_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("table", t.ID),
			slog.String("id", id),
			slog.Any("err", err),
		)
		middleware.SetFlash(c, view.Flash{Kind: view.FlashError, Message: errorMessage(err)})
	}
	d.renderTable(c, http.StatusOK, t, snap, active)
}

// fetchRecord reads one entity for an edit form.
func (d *Deps) fetchRecord(c *gin.Context, resource string) (datatable.Record, bool) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := d.backend(c).Do(c.Request.Context(), apiclient.Request{
		URL:    strings.TrimRight(resource, "/") + "/" + id,
		Method: http.MethodGet,
	})
	if err == nil {
		var rec datatable.Record
		if err = resp.Decode(&rec); err == nil {
			return rec, true
		}
	}

	if apiclient.IsStatus(err, http.StatusNotFound) {
		middleware.Fail(c, apperr.NotFoundErr("Record not found."))
		return nil, false
	}
	middleware.Fail(c, apperr.UpstreamErr(errorMessage(err), err))
	return nil, false
}

func errorMessage(err error) string {
	if ae, ok := apiclient.AsError(err); ok {
		return ae.Message
	}
	return "Something went wrong. Please try again."
}

// mediaURL resolves relative media paths returned by the backend.
func (d *Deps) mediaURL(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || d.MediaBaseURL == "" {
		return p
	}
	return strings.TrimRight(d.MediaBaseURL, "/") + "/" + strings.TrimLeft(p, "/")
}
