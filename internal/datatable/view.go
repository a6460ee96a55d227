package datatable

import (
	"html/template"
	"strconv"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
)

// View is what the list template renders.
type View struct {
	Table *Table
	Snapshot
}

func NewView(t *Table, s Snapshot) View {
	return View{Table: t, Snapshot: s}
}

func (v View) TotalPages() int {
	limit := v.Filters.Limit
	if limit <= 0 || v.Count <= 0 {
		return 1
	}
	return (v.Count + limit - 1) / limit
}

func (v View) HasPrev() bool { return v.Filters.Page > 1 }

func (v View) HasNext() bool { return v.Filters.Page < v.TotalPages() }

// PageURL links to page n keeping every other filter.
func (v View) PageURL(n int) string {
	return v.urlFor(v.Filters.With(KeyPage, strconv.Itoa(n)))
}

func (v View) PrevURL() string { return v.PageURL(v.Filters.Page - 1) }

func (v View) NextURL() string { return v.PageURL(v.Filters.Page + 1) }

func (v View) urlFor(f Filters) string {
	return v.Table.BasePath + "?" + f.Query().Encode()
}

// FilterControls renders the filter bar.
func (v View) FilterControls() []template.HTML {
	out := make([]template.HTML, 0, len(v.Table.FilterFields))
	for _, f := range v.Table.FilterFields {
		out = append(out, RenderFilterField(f, v.Filters.Get(f.Accessor)))
	}
	return out
}

func (v View) Cells(r Record) []template.HTML {
	out := make([]template.HTML, 0, len(v.Table.Columns))
	for _, c := range v.Table.Columns {
		out = append(out, c.Cell(r))
	}
	return out
}

func (v View) Actions(r Record) []template.HTML {
	out := make([]template.HTML, 0, len(v.Table.ExtraActions))
	for _, a := range v.Table.ExtraActions {
		if a.Render != nil {
			out = append(out, a.Render(r))
		}
	}
	return out
}

func (v View) ShowAdd() bool { return !v.Table.HideAdd && v.Table.AddPath != "" }

func (v View) ShowEdit() bool {
	return !v.Table.HideUpdate && v.Table.Update != nil && v.Table.Update.FormPath != nil
}

func (v View) ShowDelete() bool { return !v.Table.HideDelete }

func (v View) EditPath(r Record) string {
	if !v.ShowEdit() {
		return ""
	}
	return v.Table.Update.FormPath(r)
}

func (v View) DeletePath(r Record) string {
	return strings.TrimRight(v.Table.BasePath, "/") + "/" + r.ID() + "/delete"
}

func (v View) DeletingTitle() string {
	if v.Table.Update != nil && v.Table.Update.DeletingTitle != "" {
		return v.Table.Update.DeletingTitle
	}
	return "Delete " + v.Table.Title
}

func (v View) Loading() bool { return v.Status == StatusLoading }

// ErrorMessage is the banner text when the last load failed. Rows from the
// previous success are still shown underneath.
func (v View) ErrorMessage() string {
	if v.Err == nil {
		return ""
	}
	if ae, ok := apiclient.AsError(v.Err); ok {
		return ae.Message
	}
	return "Could not load " + strings.ToLower(v.Table.Title) + "."
}
