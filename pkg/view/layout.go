package view

import "html/template"

type NavItem struct {
	Key   string
	Title string
	Path  string
}

// Nav is the sidebar of the dashboard.
var Nav = []NavItem{
	{Key: "dashboard", Title: "Dashboard", Path: "/admin"},
	{Key: "products", Title: "Products", Path: "/admin/ecommerce/products"},
	{Key: "categories", Title: "Categories", Path: "/admin/ecommerce/categories"},
	{Key: "orders", Title: "Orders", Path: "/admin/ecommerce/orders"},
	{Key: "discounts", Title: "Discounts", Path: "/admin/ecommerce/discounts"},
	{Key: "transactions", Title: "Transactions", Path: "/admin/ecommerce/transactions"},
	{Key: "api-keys", Title: "API Keys", Path: "/admin/api-keys"},
}

// Layout is embedded by every page model.
type Layout struct {
	Title     string
	Active    string
	UserName  string
	RequestID string
	Flash     *Flash
	CSRFField template.HTML
	CSRFToken string
	Nav       []NavItem
}

func (l Layout) LoggedIn() bool { return l.UserName != "" }
