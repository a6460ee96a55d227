package admin

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/forms"
	"mondedesparfum.com/admin/internal/http/handlers"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/imaging"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/pkg/view"
)

// pickerFields are the form fields allowed to ask for category options.
var pickerFields = map[string]string{
	"category_id": "Category",
	"parent":      "Parent Category",
}

type CategoryHandlers struct {
	d    *Deps
	form *formPage[forms.CategoryInput]
}

func NewCategoryHandlers(d *Deps) *CategoryHandlers {
	h := &CategoryHandlers{d: d}
	h.form = &formPage[forms.CategoryInput]{
		def:        forms.CategoryForm,
		template:   "category_form",
		active:     "categories",
		basePath:   categoriesPath,
		bind:       h.bind,
		fromRecord: forms.CategoryFromRecord,
		decorate:   h.decorate,
		multipart:  true,
	}
	return h
}

func (h *CategoryHandlers) List(c *gin.Context) { h.d.list(c, h.d.categoriesTable(), "categories") }

func (h *CategoryHandlers) New(c *gin.Context)    { h.form.New(h.d, c) }
func (h *CategoryHandlers) Create(c *gin.Context) { h.form.Create(h.d, c) }
func (h *CategoryHandlers) Edit(c *gin.Context)   { h.form.Edit(h.d, c) }
func (h *CategoryHandlers) Update(c *gin.Context) { h.form.Update(h.d, c) }

func (h *CategoryHandlers) ConfirmDelete(c *gin.Context) {
	h.d.confirmDelete(c, h.d.categoriesTable(), "categories")
}

func (h *CategoryHandlers) Delete(c *gin.Context) {
	h.d.delete(c, h.d.categoriesTable(), "categories", "Category deleted successfully")
}

// Options re-renders a category input for the search box. Keystrokes from
// the same admin and field are debounced; a superseded search answers 204
// and the browser keeps what it shows.
func (h *CategoryHandlers) Options(c *gin.Context) {
	field := c.Query("field")
	label, ok := pickerFields[field]
	if !ok {
		c.Status(http.StatusBadRequest)
		return
	}

	p := &remoteselect.Picker{
		Source:   remoteselect.Categories,
		Field:    field,
		Label:    label,
		Mode:     remoteselect.Single,
		Selected: remoteselect.Select(c.QueryArray("selected")...),
		Exclude:  strings.TrimSpace(c.Query("exclude")),
	}
	if sel := c.Query("selected"); sel != "" {
		p.SelectedLabels = map[string]string{sel: c.Query("selected_label")}
	}
	search := strings.TrimSpace(c.Query("search"))

	var opts []datatable.Option
	key := handlers.Owner(c) + ":" + field
	err := h.d.Debounce.Do(c.Request.Context(), key, func(ctx context.Context) error {
		var err error
		opts, err = p.Options(ctx, h.d.backend(c), search)
		return err
	})

	switch {
	case err == nil:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(p.Render(opts)))
	case errors.Is(err, remoteselect.ErrSuperseded), errors.Is(err, context.Canceled):
		c.Status(http.StatusNoContent)
	default:
		h.d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "category_options_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("field", field),
			slog.Any("err", err),
		)
		c.Status(http.StatusBadGateway)
	}
}

func (h *CategoryHandlers) bind(c *gin.Context, in *forms.CategoryInput) error {
	if err := c.ShouldBind(in); err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil
	case err != nil:
		return &uploadError{field: "image", msg: "Could not read the uploaded file."}
	}

	img, err := imaging.FromFileHeader(fh, h.d.ImageMaxWidth)
	if err != nil {
		msg := fh.Filename + " could not be read."
		if errors.Is(err, imaging.ErrNotImage) {
			msg = fh.Filename + " is not a supported image."
		}
		return &uploadError{field: "image", msg: msg}
	}
	in.Image = &forms.Upload{Name: img.Name, ContentType: img.ContentType, Content: img.Content}
	return nil
}

func (h *CategoryHandlers) decorate(c *gin.Context, p *view.FormPage, f *forms.Form[forms.CategoryInput]) {
	p.Picker = h.parentPicker(c, f.Values.Parent, f.Values.ParentName, f.ID)
	if f.Values.ImageURL != "" {
		v := f.Values
		v.ImageURL = h.d.mediaURL(v.ImageURL)
		p.Values = v
	}
}

// parentPicker never offers the category being edited as its own parent.
func (h *CategoryHandlers) parentPicker(c *gin.Context, selected, name, self string) template.HTML {
	q := url.Values{"field": {"parent"}}
	if self != "" {
		q.Set("exclude", self)
	}
	return h.d.pickerField(c, &remoteselect.Picker{
		Source:         remoteselect.Categories,
		Field:          "parent",
		Label:          "Parent Category",
		Mode:           remoteselect.Single,
		Selected:       remoteselect.Select(selected),
		SelectedLabels: map[string]string{selected: name},
		Exclude:        self,
		SearchURL:      categoriesPath + "/options?" + q.Encode(),
	})
}
