// Package forms implements the create-or-update entity forms of the
// dashboard: validation, serialization and mapping of backend errors.
package forms

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/http/validation"
	"mondedesparfum.com/admin/pkg/view"
)

// Upload is a file attached to a form.
type Upload struct {
	Name        string
	ContentType string
	Content     []byte
}

// Payload is the serialized form: either a JSON body or multipart parts.
type Payload struct {
	JSON      any
	Multipart *apiclient.Multipart
}

// Definition describes one entity form.
type Definition[T any] struct {
	Title      string
	Resource   string
	Messages   validation.Messages
	Defaults   func() T
	Encode     func(T) Payload
	CreatedMsg string
	UpdatedMsg string
}

// Form is the state of one form submission. An empty ID means create.
type Form[T any] struct {
	Def    *Definition[T]
	ID     string
	Values T
	Errors validation.FieldErrors
	// Mutate runs after a successful submit, e.g. to refresh a table.
	Mutate func()
}

func NewCreate[T any](def *Definition[T]) *Form[T] {
	return &Form[T]{Def: def, Values: def.Defaults()}
}

func NewUpdate[T any](def *Definition[T], id string, values T) *Form[T] {
	return &Form[T]{Def: def, ID: id, Values: values}
}

func (f *Form[T]) Updating() bool { return f.ID != "" }

// Validate fills Errors and reports whether the form may be submitted.
func (f *Form[T]) Validate() bool {
	f.Errors = validation.Struct(&f.Values, f.Def.Messages)
	return len(f.Errors) == 0
}

// Error returns the inline message for a field.
func (f *Form[T]) Error(field string) string {
	return f.Errors[field]
}

// Result is the outcome of Submit.
type Result struct {
	// Sent is false when validation blocked the request.
	Sent     bool
	OK       bool
	Notice   view.Flash
	Response *apiclient.Response
}

// Submit validates, sends and applies the outcome to the form.
func (f *Form[T]) Submit(ctx context.Context, api apiclient.Doer) Result {
	if !f.Validate() {
		return Result{}
	}

	payload := f.Def.Encode(f.Values)
	req := apiclient.Request{
		URL:       f.Def.Resource,
		Method:    http.MethodPost,
		Data:      payload.JSON,
		Multipart: payload.Multipart,
	}
	if f.Updating() {
		req.URL = strings.TrimRight(f.Def.Resource, "/") + "/" + f.ID
		req.Method = http.MethodPut
	}

	resp, err := api.Do(ctx, req)
	if err != nil {
		return Result{Sent: true, Notice: view.Flash{Kind: view.FlashError, Message: f.applyError(err)}}
	}

	msg := f.Def.CreatedMsg
	if f.Updating() {
		msg = f.Def.UpdatedMsg
	} else {
		f.Values = f.Def.Defaults()
	}
	f.Errors = nil
	if f.Mutate != nil {
		f.Mutate()
	}
	return Result{Sent: true, OK: true, Response: resp, Notice: view.Flash{Kind: view.FlashSuccess, Message: msg}}
}

// applyError attaches field-keyed backend errors to known fields and
// returns the notification text. Unknown keys end up in the text.
func (f *Form[T]) applyError(err error) string {
	ae, ok := apiclient.AsError(err)
	if !ok {
		return err.Error()
	}

	known := FieldNames(f.Values)
	var extra []string
	fieldErrs := ae.FieldErrors()
	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		msg := strings.Join(fieldErrs[k], " ")
		if known[k] {
			if f.Errors == nil {
				f.Errors = validation.FieldErrors{}
			}
			f.Errors[k] = msg
			continue
		}
		extra = append(extra, fmt.Sprintf("%s: %s", k, msg))
	}

	if len(extra) == 0 {
		return ae.Message
	}
	return ae.Message + " (" + strings.Join(extra, "; ") + ")"
}

// FieldNames lists the form field names of a struct value.
func FieldNames(v any) map[string]bool {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]bool{}
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("form")
		if j := strings.Index(tag, ","); j >= 0 {
			tag = tag[:j]
		}
		if tag != "" && tag != "-" {
			out[tag] = true
		}
	}
	return out
}
