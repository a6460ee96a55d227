package admin

import (
	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/forms"
	"mondedesparfum.com/admin/pkg/view"
)

type DiscountHandlers struct {
	d    *Deps
	form *formPage[forms.DiscountInput]
}

func NewDiscountHandlers(d *Deps) *DiscountHandlers {
	return &DiscountHandlers{
		d: d,
		form: &formPage[forms.DiscountInput]{
			def:        forms.DiscountForm,
			template:   "discount_form",
			active:     "discounts",
			basePath:   discountsPath,
			fromRecord: forms.DiscountFromRecord,
			decorate: func(_ *gin.Context, p *view.FormPage, _ *forms.Form[forms.DiscountInput]) {
				p.Options = map[string][]datatable.Option{"discount_type": forms.DiscountTypes}
			},
		},
	}
}

func (h *DiscountHandlers) List(c *gin.Context) { h.d.list(c, h.d.discountsTable(), "discounts") }

func (h *DiscountHandlers) New(c *gin.Context)    { h.form.New(h.d, c) }
func (h *DiscountHandlers) Create(c *gin.Context) { h.form.Create(h.d, c) }
func (h *DiscountHandlers) Edit(c *gin.Context)   { h.form.Edit(h.d, c) }
func (h *DiscountHandlers) Update(c *gin.Context) { h.form.Update(h.d, c) }

func (h *DiscountHandlers) ConfirmDelete(c *gin.Context) {
	h.d.confirmDelete(c, h.d.discountsTable(), "discounts")
}

func (h *DiscountHandlers) Delete(c *gin.Context) {
	h.d.delete(c, h.d.discountsTable(), "discounts", "Discount deleted successfully")
}
