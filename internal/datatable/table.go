// Package datatable is the generic paginated, filterable list shared by
// every admin collection page.
package datatable

import (
	"html/template"
	"net/http"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
)

// CellRenderer turns a row into cell markup.
type CellRenderer func(Record) template.HTML

type Column struct {
	Accessor string
	Title    string
	Width    string
	Render   CellRenderer
}

// Cell renders the column for r, falling back to the escaped accessor value.
func (c Column) Cell(r Record) template.HTML {
	if c.Render != nil {
		return c.Render(r)
	}
	return template.HTML(template.HTMLEscapeString(r.String(c.Accessor)))
}

// RowAction is an extra per-row button.
type RowAction struct {
	Title  string
	Color  string
	Render func(Record) template.HTML
}

// UpdateData configures the edit and delete affordances of each row.
type UpdateData struct {
	// FormPath is where the edit form for a row lives.
	FormPath      func(Record) string
	ModalSize     string
	UpdatingTitle string
	DeletingTitle string
}

// Table is the static definition of a collection page.
type Table struct {
	ID      string
	Title   string
	URL     string
	Method  string
	UseNext bool
	// BasePath is the dashboard route serving this table.
	BasePath string
	AddPath  string

	DefaultFilters Filters
	Columns        []Column
	FilterFields   []FilterField
	Update         *UpdateData
	ExtraActions   []RowAction

	HideAdd    bool
	HideUpdate bool
	HideDelete bool

	// DeleteRequest overrides the default DELETE {URL}/{id}.
	DeleteRequest func(id string) apiclient.Request
}

func (t *Table) listRequest(f Filters) apiclient.Request {
	method := t.Method
	if method == "" {
		method = http.MethodGet
	}
	return apiclient.Request{URL: t.URL, Method: method, Params: f.Query(), UseNext: t.UseNext}
}

func (t *Table) deleteRequest(id string) apiclient.Request {
	if t.DeleteRequest != nil {
		return t.DeleteRequest(id)
	}
	return apiclient.Request{
		URL:     strings.TrimRight(t.URL, "/") + "/" + id,
		Method:  http.MethodDelete,
		UseNext: t.UseNext,
	}
}

// FilterKeys lists the extra filter keys the table understands.
func (t *Table) FilterKeys() []string {
	var out []string
	for _, f := range t.FilterFields {
		switch f.Accessor {
		case KeyPage, KeyLimit, KeyOrdering, KeySearch:
		default:
			out = append(out, f.Accessor)
		}
	}
	return out
}
