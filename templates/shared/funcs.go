// Package shared holds the helpers available to every page template.
package shared

import (
	"html/template"
	"strings"

	"mondedesparfum.com/admin/pkg/view"
)

// FormatMoney formats a backend decimal with its currency.
func FormatMoney(v any, currency string) string {
	return view.MoneyString(v, currency)
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money":      FormatMoney,
		"orderColor": view.OrderStatusColor,
		"txColor":    view.TransactionStatusColor,
		"maskKey":    view.MaskKey,
		"upper":      strings.ToUpper,
		"add":        func(a, b int) int { return a + b },
		"checked":    checked,
		"selected":   selected,
		"hasError":   func(errs map[string]string, field string) bool { return errs[field] != "" },
		"fieldError": func(errs map[string]string, field string) string { return errs[field] },
		"flashColor": func(f *view.Flash) string { return f.Color() },
		"navActive":  func(active, key string) bool { return active == key },
	}
}

func checked(b bool) template.HTMLAttr {
	if b {
		return "checked"
	}
	return ""
}

func selected(a, b string) template.HTMLAttr {
	if a == b {
		return "selected"
	}
	return ""
}
