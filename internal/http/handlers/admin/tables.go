package admin

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/modules/orders"
	"mondedesparfum.com/admin/pkg/view"
)

const (
	productsPath     = "/admin/ecommerce/products"
	categoriesPath   = "/admin/ecommerce/categories"
	ordersPath       = "/admin/ecommerce/orders"
	discountsPath    = "/admin/ecommerce/discounts"
	transactionsPath = "/admin/ecommerce/transactions"
	apiKeysPath      = "/admin/api-keys"
)

var limitOptions = datatable.Opts("2", "5", "10", "15", "20", "50", "100")

func defaultFilters() datatable.Filters {
	return datatable.Filters{Page: 1, Limit: 10, Ordering: "id"}
}

func limitFilter() datatable.FilterField {
	return datatable.GroupedSelectFilter(datatable.KeyLimit, "Limit",
		datatable.OptionGroup{Label: "Rows per page", Options: limitOptions})
}

// orderingFilter offers every field ascending and descending.
func orderingFilter(fields ...datatable.Option) datatable.FilterField {
	asc := make([]datatable.Option, 0, len(fields))
	desc := make([]datatable.Option, 0, len(fields))
	for _, f := range fields {
		asc = append(asc, f)
		desc = append(desc, datatable.Option{Value: "-" + f.Value, Label: f.Label})
	}
	return datatable.GroupedSelectFilter(datatable.KeyOrdering, "Ordering",
		datatable.OptionGroup{Label: "Ascending", Options: asc},
		datatable.OptionGroup{Label: "Descending", Options: desc},
	)
}

func editPath(base string) func(datatable.Record) string {
	return func(r datatable.Record) string { return base + "/" + r.ID() }
}

// Cell renderers. Everything coming from a record goes through
// html/template escaping.

func esc(s string) string { return template.HTMLEscapeString(s) }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func textCell(path string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		return template.HTML(esc(orDash(r.String(path))))
	}
}

func badge(color, text string) template.HTML {
	return template.HTML(fmt.Sprintf(`<span class="badge %s">%s</span>`, esc(color), esc(text)))
}

func boolCell(path, yes, no string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		if r.String(path) == "true" {
			return badge("green", yes)
		}
		return badge("red", no)
	}
}

func formatDate(s string) string {
	if s == "" {
		return "-"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.DateOnly {
				return t.Format("02 Jan 2006")
			}
			return t.Format("02 Jan 2006, 15:04")
		}
	}
	return s
}

func dateCell(path string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		return template.HTML(esc(formatDate(r.String(path))))
	}
}

// moneyCell formats path in the record's currency, or the default one.
func moneyCell(path, currencyPath string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		v, _ := r.Lookup(path)
		cur := ""
		if currencyPath != "" {
			cur = r.String(currencyPath)
		}
		return template.HTML(esc(view.MoneyString(v, cur)))
	}
}

func (d *Deps) thumbCell(imagePath, labelPath string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		label := esc(orDash(r.String(labelPath)))
		src := d.mediaURL(r.String(imagePath))
		if src == "" {
			return template.HTML(label)
		}
		return template.HTML(fmt.Sprintf(`<img class="thumb" src="%s" alt="" width="32" height="32"> %s`, esc(src), label))
	}
}

// firstImage is the primary product image, or the first one.
func firstImage(r datatable.Record) string {
	raw, ok := r.Lookup("images")
	if !ok {
		return ""
	}
	list, _ := raw.([]any)
	var first string
	for _, x := range list {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		img := datatable.Record(m)
		u := img.String("cloudinary_url")
		if u == "" {
			u = img.String("image")
		}
		if img.String("is_primary") == "true" {
			return u
		}
		if first == "" {
			first = u
		}
	}
	return first
}

func (d *Deps) productsTable() *datatable.Table {
	return &datatable.Table{
		ID:             "products",
		Title:          "Products",
		URL:            "/commerce/products",
		BasePath:       productsPath,
		AddPath:        productsPath + "/new",
		DefaultFilters: defaultFilters(),
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "name", Title: "Name", Width: "240px", Render: func(r datatable.Record) template.HTML {
				return d.thumbCell("_thumb", "name")(withThumb(r))
			}},
			{Accessor: "stock", Title: "Stock", Render: textCell("stock")},
			{Accessor: "category.name", Title: "Category", Render: textCell("category.name")},
			{Accessor: "price", Title: "Price", Render: moneyCell("price", "")},
			{Accessor: "is_active", Title: "Status", Render: boolCell("is_active", "Active", "Inactive")},
			{Accessor: "created_on", Title: "Created", Render: dateCell("created_on")},
			{Accessor: "updated_on", Title: "Updated", Render: dateCell("updated_on")},
		},
		FilterFields: []datatable.FilterField{
			limitFilter(),
			datatable.TextFilter(datatable.KeySearch, "Search", "Search by name"),
			orderingFilter(
				datatable.Option{Value: "id", Label: "ID"},
				datatable.Option{Value: "name", Label: "Name"},
				datatable.Option{Value: "price", Label: "Price"},
				datatable.Option{Value: "created_on", Label: "Created"},
			),
		},
		Update: &datatable.UpdateData{
			FormPath:      editPath(productsPath),
			UpdatingTitle: "Update Product",
			DeletingTitle: "Delete Product",
		},
	}
}

// withThumb exposes the chosen product image under a flat key.
func withThumb(r datatable.Record) datatable.Record {
	out := make(datatable.Record, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	out["_thumb"] = firstImage(r)
	return out
}

func (d *Deps) categoriesTable() *datatable.Table {
	return &datatable.Table{
		ID:             "categories",
		Title:          "Categories",
		URL:            "/commerce/categories",
		BasePath:       categoriesPath,
		AddPath:        categoriesPath + "/new",
		DefaultFilters: defaultFilters(),
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "name", Title: "Name", Render: d.thumbCell("cloudinary_url", "name")},
			{Accessor: "slug", Title: "Slug", Render: textCell("slug")},
			{Accessor: "description", Title: "Description", Width: "260px", Render: textCell("description")},
			{Accessor: "parent", Title: "Parent", Render: func(r datatable.Record) template.HTML {
				if name := r.String("parent.name"); name != "" {
					return template.HTML(esc(name))
				}
				return textCell("parent")(r)
			}},
			{Accessor: "is_active", Title: "Status", Render: boolCell("is_active", "Active", "Inactive")},
			{Accessor: "created_on", Title: "Created", Render: dateCell("created_on")},
			{Accessor: "updated_on", Title: "Updated", Render: dateCell("updated_on")},
		},
		FilterFields: []datatable.FilterField{
			limitFilter(),
			datatable.TextFilter(datatable.KeySearch, "Search", "Search by name"),
			orderingFilter(
				datatable.Option{Value: "id", Label: "ID"},
				datatable.Option{Value: "name", Label: "Name"},
			),
		},
		Update: &datatable.UpdateData{
			FormPath:      editPath(categoriesPath),
			UpdatingTitle: "Update Category",
			DeletingTitle: "Delete Category",
		},
	}
}

var orderStatusForm = template.Must(template.New("status").Parse(
	`<form method="post" action="{{.Action}}" class="inline">{{.CSRF}}` +
		`<input type="hidden" name="return_to" value="{{.ReturnTo}}">` +
		`<select name="status" data-autosubmit aria-label="Order status">` +
		`{{range .Options}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}` +
		`</select></form>`))

// statusOptions lists every order status with current preselected.
func statusOptions(current string) []view.StatusOption {
	out := make([]view.StatusOption, 0, len(orders.Statuses))
	for _, s := range orders.Statuses {
		out = append(out, view.StatusOption{Value: string(s), Label: s.Label(), Selected: string(s) == current})
	}
	return out
}

// ordersTable is built per request: the inline status form carries the
// request's CSRF field, and returnTo keeps the current filters.
func (d *Deps) ordersTable(csrf template.HTML, returnTo string) *datatable.Table {
	statusFilter := []datatable.Option{}
	for _, s := range orders.Statuses {
		statusFilter = append(statusFilter, datatable.Option{Value: string(s), Label: s.Label()})
	}

	return &datatable.Table{
		ID:             "orders",
		Title:          "Orders",
		URL:            orders.Resource,
		BasePath:       ordersPath,
		DefaultFilters: defaultFilters(),
		HideAdd:        true,
		HideUpdate:     true,
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "order_number", Title: "Order #", Render: textCell("order_number")},
			{Accessor: "status", Title: "Status", Width: "160px", Render: func(r datatable.Record) template.HTML {
				var b strings.Builder
				err := orderStatusForm.Execute(&b, struct {
					Action   string
					CSRF     template.HTML
					ReturnTo string
					Options  []view.StatusOption
				}{
					Action:   ordersPath + "/" + r.ID() + "/status",
					CSRF:     csrf,
					ReturnTo: returnTo,
					Options:  statusOptions(r.String("status")),
				})
				if err != nil {
					return badge(view.OrderStatusColor(r.String("status")), r.String("status"))
				}
				return template.HTML(b.String())
			}},
			{Accessor: "customer", Title: "Customer", Width: "200px", Render: func(r datatable.Record) template.HTML {
				name := strings.TrimSpace(r.String("first_name") + " " + r.String("last_name"))
				return template.HTML(fmt.Sprintf(`<strong>%s</strong><br><small>%s</small>`, esc(orDash(name)), esc(r.String("email"))))
			}},
			{Accessor: "phone_number", Title: "Phone", Render: textCell("phone_number")},
			{Accessor: "total", Title: "Amount", Render: moneyCell("total", "")},
			{Accessor: "cart", Title: "Cart", Render: cartCell},
			{Accessor: "created_on", Title: "Date", Render: func(r datatable.Record) template.HTML {
				out := esc(formatDate(r.String("created_on")))
				if est := r.String("estimated_delivery"); est != "" {
					out += "<br><small>Est. delivery " + esc(formatDate(est)) + "</small>"
				}
				return template.HTML(out)
			}},
		},
		FilterFields: []datatable.FilterField{
			limitFilter(),
			datatable.TextFilter(datatable.KeySearch, "Search", "Search by order # or name"),
			datatable.SelectFilter("status", "Status", statusFilter...),
			orderingFilter(
				datatable.Option{Value: "id", Label: "ID"},
				datatable.Option{Value: "order_number", Label: "Order #"},
				datatable.Option{Value: "created_on", Label: "Date"},
				datatable.Option{Value: "total", Label: "Amount"},
			),
		},
		Update: &datatable.UpdateData{DeletingTitle: "Delete Order"},
		ExtraActions: []datatable.RowAction{{
			Title: "View Order Information",
			Color: "orange",
			Render: func(r datatable.Record) template.HTML {
				return template.HTML(fmt.Sprintf(`<a class="btn orange" href="%s/%s">View</a>`, ordersPath, esc(r.ID())))
			},
		}},
	}
}

// cartCell shows how many products and units an order holds.
func cartCell(r datatable.Record) template.HTML {
	raw, _ := r.Lookup("items")
	list, _ := raw.([]any)
	units := 0
	for _, x := range list {
		m, ok := x.(map[string]any)
		if !ok {
			continue
		}
		q, _ := strconv.Atoi(datatable.Record(m).String("quantity"))
		units += q
	}
	return template.HTML(fmt.Sprintf("%d products<br><small>%d items</small>", len(list), units))
}

func (d *Deps) discountsTable() *datatable.Table {
	return &datatable.Table{
		ID:             "discounts",
		Title:          "Discounts",
		URL:            "/commerce/discounts",
		BasePath:       discountsPath,
		AddPath:        discountsPath + "/new",
		DefaultFilters: defaultFilters(),
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "code", Title: "Code", Render: func(r datatable.Record) template.HTML {
				return template.HTML("<code>" + esc(r.String("code")) + "</code>")
			}},
			{Accessor: "description", Title: "Description", Width: "220px", Render: textCell("description")},
			{Accessor: "discount_type", Title: "Type", Render: func(r datatable.Record) template.HTML {
				if r.String("discount_type") == "percentage" {
					return badge("blue", "Percentage")
				}
				return badge("grape", "Fixed Amount")
			}},
			{Accessor: "value", Title: "Value", Render: func(r datatable.Record) template.HTML {
				if r.String("discount_type") == "percentage" {
					return template.HTML(esc(r.String("value")) + "%")
				}
				return moneyCell("value", "")(r)
			}},
			{Accessor: "min_purchase", Title: "Min. purchase", Render: optionalMoney("min_purchase")},
			{Accessor: "max_discount", Title: "Max. discount", Render: optionalMoney("max_discount")},
			{Accessor: "start_date", Title: "Starts", Render: dateCell("start_date")},
			{Accessor: "end_date", Title: "Ends", Render: dateCell("end_date")},
			{Accessor: "is_active", Title: "Status", Render: boolCell("is_active", "Active", "Inactive")},
			{Accessor: "usage_limit", Title: "Usage limit", Render: func(r datatable.Record) template.HTML {
				if r.String("usage_limit") == "" {
					return "Unlimited"
				}
				return textCell("usage_limit")(r)
			}},
			{Accessor: "times_used", Title: "Used", Render: textCell("times_used")},
			{Accessor: "is_first_purchase", Title: "First purchase", Render: boolCell("is_first_purchase", "Yes", "No")},
			{Accessor: "is_single_use", Title: "Single use", Render: boolCell("is_single_use", "Yes", "No")},
			{Accessor: "created_on", Title: "Created", Render: dateCell("created_on")},
			{Accessor: "updated_on", Title: "Updated", Render: dateCell("updated_on")},
		},
		FilterFields: []datatable.FilterField{
			limitFilter(),
			datatable.TextFilter(datatable.KeySearch, "Search", "Search by code"),
			orderingFilter(
				datatable.Option{Value: "id", Label: "ID"},
				datatable.Option{Value: "code", Label: "Code"},
			),
		},
		Update: &datatable.UpdateData{
			FormPath:      editPath(discountsPath),
			UpdatingTitle: "Update Discount",
			DeletingTitle: "Delete Discount",
		},
	}
}

func optionalMoney(path string) datatable.CellRenderer {
	return func(r datatable.Record) template.HTML {
		if r.String(path) == "" {
			return "-"
		}
		return moneyCell(path, "")(r)
	}
}

func (d *Deps) transactionsTable() *datatable.Table {
	return &datatable.Table{
		ID:             "transactions",
		Title:          "Transactions",
		URL:            "/commerce/transactions",
		BasePath:       transactionsPath,
		DefaultFilters: defaultFilters(),
		HideAdd:        true,
		HideUpdate:     true,
		HideDelete:     true,
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "transaction_id", Title: "Transaction ID", Render: textCell("transaction_id")},
			{Accessor: "order_number", Title: "Order #", Render: func(r datatable.Record) template.HTML {
				if n := r.String("order.order_number"); n != "" {
					return template.HTML(esc(n))
				}
				return textCell("order_number")(r)
			}},
			{Accessor: "amount", Title: "Amount", Render: moneyCell("amount", "currency")},
			{Accessor: "status", Title: "Status", Render: func(r datatable.Record) template.HTML {
				label := r.String("status_display")
				if label == "" {
					label = r.String("status")
				}
				return badge(view.TransactionStatusColor(r.String("status")), label)
			}},
			{Accessor: "payment_method", Title: "Payment method", Render: textCell("payment_method")},
			{Accessor: "confirmation_code", Title: "Confirmation code", Render: textCell("confirmation_code")},
			{Accessor: "created_on", Title: "Date", Render: dateCell("created_on")},
		},
		FilterFields: []datatable.FilterField{
			limitFilter(),
			datatable.TextFilter(datatable.KeySearch, "Search", "Search by transaction ID"),
			datatable.SelectFilter("status", "Status",
				datatable.Option{Value: string(orders.TxPending), Label: "Pending"},
				datatable.Option{Value: string(orders.TxCompleted), Label: "Completed"},
				datatable.Option{Value: string(orders.TxFailed), Label: "Failed"},
			),
			orderingFilter(
				datatable.Option{Value: "id", Label: "ID"},
				datatable.Option{Value: "amount", Label: "Amount"},
				datatable.Option{Value: "created_on", Label: "Date"},
			),
		},
	}
}

// API keys are removed through a dedicated endpoint taking the id in the body.
func (d *Deps) apiKeysTable() *datatable.Table {
	return &datatable.Table{
		ID:             "api-keys",
		Title:          "API Keys",
		URL:            "/users/auth/api-keys",
		BasePath:       apiKeysPath,
		AddPath:        apiKeysPath + "/new",
		DefaultFilters: defaultFilters(),
		Columns: []datatable.Column{
			{Accessor: "id", Title: "ID", Width: "60px"},
			{Accessor: "name", Title: "Name", Width: "200px", Render: textCell("name")},
			{Accessor: "key", Title: "API Key", Width: "300px", Render: func(r datatable.Record) template.HTML {
				key := r.String("key")
				if key == "" {
					return "-"
				}
				return template.HTML(fmt.Sprintf(`<button class="btn" type="button" data-copy="%s">Copy</button> <code>%s</code>`,
					esc(key), esc(view.MaskKey(key))))
			}},
			{Accessor: "domain", Title: "Domain", Width: "200px", Render: textCell("domain")},
		},
		FilterFields: []datatable.FilterField{limitFilter()},
		Update: &datatable.UpdateData{
			FormPath:      editPath(apiKeysPath),
			UpdatingTitle: "Update API Key",
			DeletingTitle: "Delete Key",
		},
		DeleteRequest: func(id string) apiclient.Request {
			return apiclient.Request{
				URL:    "/users/auth/api-keys-delete",
				Method: http.MethodPost,
				Data:   map[string]string{"id": id},
			}
		},
	}
}
