package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mondedesparfum.com/admin/internal/apiclient"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusPaid       Status = "paid"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses is the order of the status select.
var Statuses = []Status{
	StatusPending,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
)

var TransactionStatuses = []TransactionStatus{TxPending, TxCompleted, TxFailed}

type Item struct {
	ID          apiclient.ID    `json:"id"`
	Product     apiclient.ID    `json:"product"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Transaction struct {
	ID               apiclient.ID      `json:"id"`
	TransactionID    string            `json:"transaction_id"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	Status           TransactionStatus `json:"status"`
	PaymentMethod    string            `json:"payment_method"`
	ConfirmationCode string            `json:"confirmation_code"`
	CreatedOn        *time.Time        `json:"created_on"`
}

// DiscountCode is the discount applied to an order, if any.
type DiscountCode struct {
	ID           apiclient.ID    `json:"id"`
	Code         string          `json:"code"`
	DiscountType string          `json:"discount_type"`
	Value        decimal.Decimal `json:"value"`
}

type Order struct {
	ID                apiclient.ID    `json:"id"`
	OrderNumber       string          `json:"order_number"`
	Status            Status          `json:"status"`
	StatusDisplay     string          `json:"status_display"`
	Email             string          `json:"email"`
	PhoneNumber       string          `json:"phone_number"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	ShippingAddress   string          `json:"shipping_address"`
	BillingAddress    string          `json:"billing_address"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	Tax               decimal.Decimal `json:"tax"`
	Discount          decimal.Decimal `json:"discount"`
	DiscountCode      *DiscountCode   `json:"discount_code"`
	Total             decimal.Decimal `json:"total"`
	Notes             string          `json:"notes"`
	TrackingNumber    string          `json:"tracking_number"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	PaymentURL        string          `json:"payment_url"`
	IsPaid            bool            `json:"is_paid"`
	CreatedOn         *time.Time      `json:"created_on"`
	Items             []Item          `json:"items"`
	Transaction       *Transaction    `json:"transaction"`
}

func (o Order) StatusLabel() string {
	if o.StatusDisplay != "" {
		return o.StatusDisplay
	}
	return o.Status.Label()
}

func (o Order) CustomerName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}
