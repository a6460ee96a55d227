package admin

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/forms"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/http/validation"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/pkg/view"
)

// uploadError is a rejected file attachment.
type uploadError struct {
	field string
	msg   string
}

func (e *uploadError) Error() string { return e.field + ": " + e.msg }

// formPage wires one entity form to its routes.
type formPage[T any] struct {
	def      *forms.Definition[T]
	template string
	active   string
	basePath string
	// bind parses the request into in; nil means c.ShouldBind.
	bind       func(c *gin.Context, in *T) error
	fromRecord func(datatable.Record) T
	// decorate adds pickers, images and option lists.
	decorate  func(c *gin.Context, p *view.FormPage, f *forms.Form[T])
	multipart bool
	// recordURL is read for the edit form when it differs from the
	// resource written to.
	recordURL string
}

func (fp *formPage[T]) New(d *Deps, c *gin.Context) {
	fp.render(d, c, http.StatusOK, forms.NewCreate(fp.def))
}

func (fp *formPage[T]) Edit(d *Deps, c *gin.Context) {
	resource := fp.def.Resource
	if fp.recordURL != "" {
		resource = fp.recordURL
	}
	rec, ok := d.fetchRecord(c, resource)
	if !ok {
		return
	}
	fp.render(d, c, http.StatusOK, forms.NewUpdate(fp.def, strings.TrimSpace(c.Param("id")), fp.fromRecord(rec)))
}

func (fp *formPage[T]) Create(d *Deps, c *gin.Context) {
	fp.submit(d, c, &forms.Form[T]{Def: fp.def})
}

func (fp *formPage[T]) Update(d *Deps, c *gin.Context) {
	fp.submit(d, c, &forms.Form[T]{Def: fp.def, ID: strings.TrimSpace(c.Param("id"))})
}

func (fp *formPage[T]) submit(d *Deps, c *gin.Context, f *forms.Form[T]) {
	var in T
	if err := fp.doBind(c, &in); err != nil {
		f.Values = in
		var ue *uploadError
		if errors.As(err, &ue) {
			f.Errors = validation.FieldErrors{ue.field: ue.msg}
		} else {
			f.Errors = validation.FromBindError(err, &in, fp.def.Messages)
		}
		fp.render(d, c, http.StatusUnprocessableEntity, f)
		return
	}
	f.Values = in

	res := f.Submit(c.Request.Context(), d.backend(c))
	switch {
	case !res.Sent:
		fp.render(d, c, http.StatusUnprocessableEntity, f)
	case !res.OK:
		d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "form_rejected",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("resource", fp.def.Resource),
			slog.String("id", f.ID),
			slog.String("notice", res.Notice.Message),
		)
		middleware.SetFlash(c, res.Notice)
		fp.render(d, c, http.StatusBadRequest, f)
	case f.Updating():
		render.RedirectNotice(c, d.Flash, fp.action(f), res.Notice)
	default:
		render.RedirectNotice(c, d.Flash, fp.basePath, res.Notice)
	}
}

func (fp *formPage[T]) doBind(c *gin.Context, in *T) error {
	if fp.bind != nil {
		return fp.bind(c, in)
	}
	return c.ShouldBind(in)
}

func (fp *formPage[T]) action(f *forms.Form[T]) string {
	if f.Updating() {
		return fp.basePath + "/" + f.ID
	}
	return fp.basePath
}

func (fp *formPage[T]) render(d *Deps, c *gin.Context, status int, f *forms.Form[T]) {
	heading := "Add " + fp.def.Title
	if f.Updating() {
		heading = "Update " + fp.def.Title
	}
	p := view.FormPage{
		Layout:    render.Layout(c, heading, fp.active),
		Heading:   heading,
		Action:    fp.action(f),
		Cancel:    fp.basePath,
		Updating:  f.Updating(),
		Multipart: fp.multipart,
		Values:    f.Values,
		Errors:    f.Errors,
	}
	if fp.decorate != nil {
		fp.decorate(c, &p, f)
	}
	render.Page(c, status, fp.template, p)
}

// pickerField loads the first page of options for p. A failed load renders
// an empty input; the search box can still recover.
func (d *Deps) pickerField(c *gin.Context, p *remoteselect.Picker) template.HTML {
	opts, err := p.Options(c.Request.Context(), d.backend(c), "")
	if err != nil {
		d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "picker_options_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("field", p.Field),
			slog.Any("err", err),
		)
	}
	return p.Input(opts)
}
