package admin

import (
	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/forms"
)

type APIKeyHandlers struct {
	d    *Deps
	form *formPage[forms.APIKeyInput]
}

func NewAPIKeyHandlers(d *Deps) *APIKeyHandlers {
	return &APIKeyHandlers{
		d: d,
		form: &formPage[forms.APIKeyInput]{
			def:        forms.APIKeyForm,
			template:   "apikey_form",
			active:     "api-keys",
			basePath:   apiKeysPath,
			fromRecord: forms.APIKeyFromRecord,
			recordURL:  "/users/auth/api-keys",
		},
	}
}

func (h *APIKeyHandlers) List(c *gin.Context) { h.d.list(c, h.d.apiKeysTable(), "api-keys") }

func (h *APIKeyHandlers) New(c *gin.Context)    { h.form.New(h.d, c) }
func (h *APIKeyHandlers) Create(c *gin.Context) { h.form.Create(h.d, c) }
func (h *APIKeyHandlers) Edit(c *gin.Context)   { h.form.Edit(h.d, c) }
func (h *APIKeyHandlers) Update(c *gin.Context) { h.form.Update(h.d, c) }

func (h *APIKeyHandlers) ConfirmDelete(c *gin.Context) {
	h.d.confirmDelete(c, h.d.apiKeysTable(), "api-keys")
}

func (h *APIKeyHandlers) Delete(c *gin.Context) {
	h.d.delete(c, h.d.apiKeysTable(), "api-keys", "API Key deleted successfully")
}
