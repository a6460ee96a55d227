package view

import (
	"html/template"

	"mondedesparfum.com/admin/internal/datatable"
)

type StatCard struct {
	Title string
	Value string
	Color string
}

type DashboardPage struct {
	Layout
	Cards        []StatCard
	Transactions []StatCard
	Error        string
}

type TablePage struct {
	Layout
	Heading string
	Table   datatable.View
}

// FormPage is shared by the entity forms; Values holds the typed input of
// the entity.
type FormPage struct {
	Layout
	Heading   string
	Action    string
	Cancel    string
	Updating  bool
	Multipart bool
	Values    any
	Errors    map[string]string
	Picker    template.HTML
	Images    []AdminImage
	Options   map[string][]datatable.Option
}

func (p FormPage) Error(field string) string { return p.Errors[field] }

type ConfirmPage struct {
	Layout
	Heading string
	Message string
	Action  string
	Cancel  string
}

type LoginPage struct {
	Layout
	ReturnTo string
	Username string
	Errors   map[string]string
}

type ErrorPage struct {
	Layout
	Status     int
	StatusText string
	Message    string
}
