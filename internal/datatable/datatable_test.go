package datatable

import (
	"encoding/json"
	"html/template"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordLookup(t *testing.T) {
	r := Record{
		"id":       json.Number("3"),
		"price":    json.Number("12.50"),
		"category": map[string]any{"name": "Oud"},
		"parent":   nil,
		"active":   true,
	}
	assert.Equal(t, "3", r.ID())
	assert.Equal(t, "12.50", r.String("price"))
	assert.Equal(t, "Oud", r.String("category.name"))
	assert.Equal(t, "", r.String("parent.name"))
	assert.Equal(t, "", r.String("missing"))
	assert.Equal(t, "true", r.String("active"))
}

func TestFiltersWith(t *testing.T) {
	f := Filters{Page: 4, Limit: 10, Ordering: "id"}

	assert.Equal(t, 5, f.With(KeyPage, "5").Page)
	assert.Equal(t, 4, f.With(KeyPage, "nope").Page)

	g := f.With("status", "paid")
	assert.Equal(t, 1, g.Page)
	assert.Equal(t, "paid", g.Extra["status"])
	assert.Nil(t, f.Extra, "original must not change")

	assert.Equal(t, 50, f.With(KeyLimit, "50").Limit)
	assert.Equal(t, "-total", f.With(KeyOrdering, "-total").Ordering)
}

func TestFiltersQueryOmitsEmpty(t *testing.T) {
	f := Filters{Page: 1, Limit: 10, Extra: map[string]string{"status": "", "category": "2"}}
	q := f.Query()
	assert.Equal(t, url.Values{"page": {"1"}, "limit": {"10"}, "category": {"2"}}, q)
}

func TestFromQuery(t *testing.T) {
	def := Filters{Page: 1, Limit: 10, Ordering: "id"}
	q := url.Values{"page": {"2"}, "search": {" musk "}, "status": {"paid"}, "junk": {"x"}}

	f := FromQuery(def, q, "status")
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, "id", f.Ordering)
	assert.Equal(t, "musk", f.Search)
	assert.Equal(t, map[string]string{"status": "paid"}, f.Extra)
	assert.True(t, f.Equal(Filters{Page: 2, Limit: 10, Ordering: "id", Search: "musk", Extra: map[string]string{"status": "paid", "other": ""}}))
}

func TestLimitIsCapped(t *testing.T) {
	def := Filters{Page: 1, Limit: 10}
	assert.Equal(t, MaxLimit, FromQuery(def, url.Values{"limit": {"100000000"}}).Limit)
	assert.Equal(t, 50, FromQuery(def, url.Values{"limit": {"50"}}).Limit)
	assert.Equal(t, 10, FromQuery(def, url.Values{"limit": {"-3"}}).Limit)
	assert.Equal(t, MaxLimit, def.With(KeyLimit, "5000").Limit)
}

func TestRenderFilterField(t *testing.T) {
	text := string(RenderFilterField(TextFilter("search", "Search", "Search..."), `"><script>`))
	assert.Contains(t, text, `type="search"`)
	assert.NotContains(t, text, "<script>")

	sel := string(RenderFilterField(SelectFilter("status", "Status", Opts("pending", "paid")...), "paid"))
	assert.Contains(t, sel, `<option value="paid" selected>paid</option>`)
	assert.Contains(t, sel, `<option value="pending">pending</option>`)

	grouped := string(RenderFilterField(GroupedSelectFilter("ordering", "Ordering",
		OptionGroup{Label: "Ascending", Options: []Option{{Value: "id", Label: "ID"}}},
		OptionGroup{Label: "Descending", Options: []Option{{Value: "-id", Label: "ID"}}},
	), "-id"))
	assert.Contains(t, grouped, `<optgroup label="Ascending">`)
	assert.Contains(t, grouped, `<option value="-id" selected>ID</option>`)
	assert.Contains(t, grouped, `<option value="id">ID</option>`)
}

func TestColumnCell(t *testing.T) {
	r := Record{"name": "<b>Oud</b>"}
	plain := Column{Accessor: "name"}
	assert.Equal(t, template.HTML("&lt;b&gt;Oud&lt;/b&gt;"), plain.Cell(r))

	custom := Column{Accessor: "name", Render: func(r Record) template.HTML { return "custom" }}
	assert.Equal(t, template.HTML("custom"), custom.Cell(r))
}

func TestViewPagination(t *testing.T) {
	tbl := ordersTable()
	v := NewView(tbl, Snapshot{Filters: Filters{Page: 2, Limit: 10, Ordering: "id"}, Count: 25})

	assert.Equal(t, 3, v.TotalPages())
	assert.True(t, v.HasPrev())
	assert.True(t, v.HasNext())
	assert.Equal(t, "/admin/ecommerce/orders?limit=10&ordering=id&page=3", v.NextURL())
	assert.Equal(t, "/admin/ecommerce/orders/7/delete", v.DeletePath(Record{"id": json.Number("7")}))
	assert.False(t, v.ShowAdd())
	assert.Len(t, v.FilterControls(), 2)
}
