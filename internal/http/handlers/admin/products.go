package admin

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/forms"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/imaging"
	"mondedesparfum.com/admin/internal/modules/products"
	"mondedesparfum.com/admin/internal/remoteselect"
	"mondedesparfum.com/admin/pkg/view"
)

const maxImagesPerSubmit = 10

type ProductHandlers struct {
	d    *Deps
	form *formPage[forms.ProductInput]
}

func NewProductHandlers(d *Deps) *ProductHandlers {
	h := &ProductHandlers{d: d}
	h.form = &formPage[forms.ProductInput]{
		def:        forms.ProductForm,
		template:   "product_form",
		active:     "products",
		basePath:   productsPath,
		bind:       h.bind,
		fromRecord: forms.ProductFromRecord,
		decorate:   h.decorate,
		multipart:  true,
	}
	return h
}

func (h *ProductHandlers) List(c *gin.Context) { h.d.list(c, h.d.productsTable(), "products") }

func (h *ProductHandlers) New(c *gin.Context)    { h.form.New(h.d, c) }
func (h *ProductHandlers) Create(c *gin.Context) { h.form.Create(h.d, c) }
func (h *ProductHandlers) Edit(c *gin.Context)   { h.form.Edit(h.d, c) }
func (h *ProductHandlers) Update(c *gin.Context) { h.form.Update(h.d, c) }

func (h *ProductHandlers) ConfirmDelete(c *gin.Context) {
	h.d.confirmDelete(c, h.d.productsTable(), "products")
}

func (h *ProductHandlers) Delete(c *gin.Context) {
	h.d.delete(c, h.d.productsTable(), "products", "Product deleted successfully")
}

// DeleteImage removes one stored image and returns to the product form.
func (h *ProductHandlers) DeleteImage(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	back := productsPath + "/" + id

	err := products.DeleteImage(c.Request.Context(), h.d.backend(c), c.Param("image"))
	if err != nil {
		h.d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "product_image_delete_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("product_id", id),
			slog.String("image_id", c.Param("image")),
			slog.Any("err", err),
		)
		msg := errorMessage(err)
		if errors.Is(err, products.ErrNoImage) {
			msg = "No image selected."
		}
		render.RedirectWithFlash(c, h.d.Flash, back, view.FlashError, msg)
		return
	}
	render.RedirectWithFlash(c, h.d.Flash, back, view.FlashSuccess, "Image removed successfully")
}

// bind reads the text fields, then every attached image, downscaled.
func (h *ProductHandlers) bind(c *gin.Context, in *forms.ProductInput) error {
	if err := c.ShouldBind(in); err != nil {
		return err
	}

	mf, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	if err != nil {
		return &uploadError{field: "_images", msg: "Could not read the uploaded files."}
	}

	files := mf.File["images"]
	if len(files) > maxImagesPerSubmit {
		return &uploadError{field: "_images", msg: "Upload at most 10 images at a time."}
	}
	for _, fh := range files {
		img, err := imaging.FromFileHeader(fh, h.d.ImageMaxWidth)
		if err != nil {
			msg := fh.Filename + " could not be read."
			if errors.Is(err, imaging.ErrNotImage) {
				msg = fh.Filename + " is not a supported image."
			}
			return &uploadError{field: "_images", msg: msg}
		}
		in.Images = append(in.Images, forms.Upload{Name: img.Name, ContentType: img.ContentType, Content: img.Content})
	}
	return nil
}

func (h *ProductHandlers) decorate(c *gin.Context, p *view.FormPage, f *forms.Form[forms.ProductInput]) {
	p.Picker = h.categoryPicker(c, f.Values.CategoryID, f.Values.CategoryName)
	for _, img := range f.Values.ExistingImages {
		p.Images = append(p.Images, view.AdminImage{
			ID:        img.ID,
			URL:       h.d.mediaURL(img.URL),
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
		})
	}
}

func (h *ProductHandlers) categoryPicker(c *gin.Context, selected, name string) template.HTML {
	return h.d.pickerField(c, &remoteselect.Picker{
		Source:         remoteselect.Categories,
		Field:          "category_id",
		Label:          "Category",
		Mode:           remoteselect.Single,
		Selected:       remoteselect.Select(selected),
		SelectedLabels: map[string]string{selected: name},
		SearchURL:      categoriesPath + "/options?field=category_id",
	})
}
