package datatable

import (
	"bytes"
	"html/template"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindSelect
	KindGroupedSelect
)

type Option struct {
	Value string
	Label string
}

type OptionGroup struct {
	Label   string
	Options []Option
}

// FilterField describes one control in a table's filter bar. Accessor is
// the filter key it writes.
type FilterField struct {
	Kind        FieldKind
	Accessor    string
	Label       string
	Placeholder string
	Options     []Option
	Groups      []OptionGroup
}

func TextFilter(accessor, label, placeholder string) FilterField {
	return FilterField{Kind: KindText, Accessor: accessor, Label: label, Placeholder: placeholder}
}

func SelectFilter(accessor, label string, opts ...Option) FilterField {
	return FilterField{Kind: KindSelect, Accessor: accessor, Label: label, Options: opts}
}

func GroupedSelectFilter(accessor, label string, groups ...OptionGroup) FilterField {
	return FilterField{Kind: KindGroupedSelect, Accessor: accessor, Label: label, Groups: groups}
}

// Opts builds options whose label equals the value.
func Opts(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

var fieldTmpl = template.Must(template.New("field").Parse(`
{{- define "options" -}}
{{- range .Options}}<option value="{{.Value}}"{{if eq .Value $.Value}} selected{{end}}>{{.Label}}</option>{{end -}}
{{- end -}}
<label class="filter-field"><span>{{.Field.Label}}</span>
{{- if eq .Kind "text"}}<input type="search" name="{{.Field.Accessor}}" value="{{.Value}}" placeholder="{{.Field.Placeholder}}">
{{- else if eq .Kind "select"}}<select name="{{.Field.Accessor}}" data-autosubmit><option value="">All</option>{{template "options" .Flat}}</select>
{{- else}}<select name="{{.Field.Accessor}}" data-autosubmit>{{range .Groups}}<optgroup label="{{.Label}}">{{template "options" .}}</optgroup>{{end}}</select>
{{- end}}</label>`))

type optionsView struct {
	Options []Option
	Value   string
}

type groupView struct {
	Label string
	optionsView
}

// RenderFilterField renders any kind of filter field with value preselected.
func RenderFilterField(f FilterField, value string) template.HTML {
	data := struct {
		Kind   string
		Field  FilterField
		Value  string
		Flat   optionsView
		Groups []groupView
	}{Field: f, Value: value}

	switch f.Kind {
	case KindSelect:
		data.Kind = "select"
		data.Flat = optionsView{Options: f.Options, Value: value}
	case KindGroupedSelect:
		data.Kind = "grouped"
		for _, g := range f.Groups {
			data.Groups = append(data.Groups, groupView{Label: g.Label, optionsView: optionsView{Options: g.Options, Value: value}})
		}
	default:
		data.Kind = "text"
	}

	var buf bytes.Buffer
	if err := fieldTmpl.Execute(&buf, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}
