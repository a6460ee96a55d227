package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/pkg/view"
)

func TestLoadParsesEveryPage(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	for _, name := range []string{
		"login", "dashboard", "table", "confirm", "order", "error",
		"product_form", "category_form", "discount_form", "apikey_form",
	} {
		assert.True(t, s.Has(name), name)
	}
	assert.False(t, s.Has("layout"))
}

func TestRenderErrorPage(t *testing.T) {
	var buf bytes.Buffer
	err := Pages.Render(&buf, "error", view.ErrorPage{
		Layout:     view.Layout{Title: "Not Found"},
		Status:     404,
		StatusText: "Not Found",
		Message:    "Order <missing>",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "404")
	assert.Contains(t, buf.String(), "Order &lt;missing&gt;")
}

func TestRenderUnknownPage(t *testing.T) {
	err := Pages.Render(&bytes.Buffer{}, "nope", nil)
	assert.Error(t, err)
}
