package view

type AdminOrderItem struct {
	ProductName string
	Qty         int
	Unit        string
	Line        string
}

type AdminOrderProperty struct {
	Property string
	Value    string
}

type AdminOrderDetail struct {
	ID          string
	OrderNumber string
	Status      string
	StatusLabel string
	IsPaid      bool
	PaymentURL  string

	PaymentMethod    string
	ConfirmationCode string

	Properties []AdminOrderProperty
	Items      []AdminOrderItem
	Statuses   []StatusOption
}

type StatusOption struct {
	Value    string
	Label    string
	Selected bool
}

type AdminOrderPage struct {
	Layout
	Order AdminOrderDetail
}
