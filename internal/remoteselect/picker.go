// Package remoteselect renders select and checkbox inputs whose options
// come from a searchable backend list.
package remoteselect

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"sort"
	"strconv"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
)

type Mode int

const (
	Single Mode = iota
	Multi
)

// DefaultLimit is the page size asked of the backend for option lists.
const DefaultLimit = 200

// Source describes where options come from.
type Source struct {
	URL        string
	ValueField string
	LabelField string
	Limit      int
}

// Categories is the commerce category list.
var Categories = Source{URL: "/commerce/categories", ValueField: "id", LabelField: "name", Limit: DefaultLimit}

// Picker is one remote-backed input bound to a host form field. The host
// form owns the selection.
type Picker struct {
	Source   Source
	Field    string
	Label    string
	Mode     Mode
	Selected map[string]bool
	// SelectedLabels names selected values that may be missing from a
	// fetched page of options.
	SelectedLabels map[string]string
	// Exclude hides one value, e.g. a category cannot be its own parent.
	Exclude string
	// SearchURL serves re-rendered options as a fragment; empty disables
	// the search box.
	SearchURL string
}

// Options fetches the options matching search.
func (p *Picker) Options(ctx context.Context, api apiclient.Doer, search string) ([]datatable.Option, error) {
	limit := p.Source.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	resp, err := api.Do(ctx, apiclient.Request{
		URL:    p.Source.URL,
		Params: url.Values{"search": {search}, "limit": {strconv.Itoa(limit)}},
	})
	if err != nil {
		return nil, err
	}
	page, err := resp.Page()
	if err != nil {
		return nil, err
	}

	out := make([]datatable.Option, 0, len(page.Results))
	for _, row := range page.Results {
		r := datatable.Record(row)
		v := r.String(p.Source.ValueField)
		if v == "" || v == p.Exclude {
			continue
		}
		out = append(out, datatable.Option{Value: v, Label: r.String(p.Source.LabelField)})
	}
	return out, nil
}

// Select marks values as selected.
func Select(values ...string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			out[v] = true
		}
	}
	return out
}

var pickerTmpl = template.Must(template.New("picker").Parse(`
{{- if .Multi -}}
<fieldset class="remote-checkboxes" data-field="{{.Field}}"><legend>{{.Label}}</legend>
{{- range .Options}}<label><input type="checkbox" name="{{$.Field}}" value="{{.Value}}"{{if index $.Selected .Value}} checked{{end}}> {{.Label}}</label>{{end -}}
</fieldset>
{{- else -}}
<select name="{{.Field}}" data-field="{{.Field}}"><option value="">Select {{.Label}}</option>
{{- range .Options}}<option value="{{.Value}}"{{if index $.Selected .Value}} selected{{end}}>{{.Label}}</option>{{else}}<option value="" disabled>{{$.Label}} not found</option>{{end -}}
</select>
{{- end}}`))

// Render draws the input with the given options.
func (p *Picker) Render(opts []datatable.Option) template.HTML {
	selected := p.Selected
	if selected == nil {
		selected = map[string]bool{}
	}
	data := struct {
		Multi    bool
		Field    string
		Label    string
		Options  []datatable.Option
		Selected map[string]bool
	}{p.Mode == Multi, p.Field, p.Label, p.withSelected(opts), selected}

	var buf bytes.Buffer
	if err := pickerTmpl.Execute(&buf, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}

// withSelected puts selected values the page did not return in front of
// opts, so submitting the form keeps them.
func (p *Picker) withSelected(opts []datatable.Option) []datatable.Option {
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		seen[o.Value] = true
	}
	var missing []string
	for v, on := range p.Selected {
		if on && !seen[v] {
			missing = append(missing, v)
		}
	}
	if len(missing) == 0 {
		return opts
	}
	sort.Strings(missing)

	out := make([]datatable.Option, 0, len(missing)+len(opts))
	for _, v := range missing {
		label := p.SelectedLabels[v]
		if label == "" {
			label = v
		}
		out = append(out, datatable.Option{Value: v, Label: label})
	}
	return append(out, opts...)
}

var fieldTmpl = template.Must(template.New("field").Parse(`<div class="remote-field">
<label>{{.Label}}</label>
{{- if .SearchURL}}
<input type="search" placeholder="Search {{.Label}}" data-options-url="{{.SearchURL}}" data-target="{{.Field}}" autocomplete="off">
{{- end}}
{{.Input}}
</div>`))

// Input renders the labelled input together with its search box.
func (p *Picker) Input(opts []datatable.Option) template.HTML {
	data := struct {
		Label     string
		Field     string
		SearchURL string
		Input     template.HTML
	}{p.Label, p.Field, p.SearchURL, p.Render(opts)}

	var buf bytes.Buffer
	if err := fieldTmpl.Execute(&buf, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}
