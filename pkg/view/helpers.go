package view

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a record carries no currency of its own.
const DefaultCurrency = "KES"

// Money formats an amount with two decimals, grouped thousands and the
// currency symbol. E.g. 1520.5 KES -> "KSh 1,520.50"
func Money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")
	out := currencySymbol(currency) + groupThousands(whole) + "." + frac
	if amount.IsNegative() {
		return "-" + out
	}
	return out
}

// MoneyString formats a backend decimal value; unparsable input is
// returned as "-".
func MoneyString(v any, currency string) string {
	d, ok := ParseDecimal(v)
	if !ok {
		return "-"
	}
	return Money(d, currency)
}

// ParseDecimal accepts the shapes the backend uses for money: decimal
// strings, JSON numbers and plain floats.
func ParseDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	case interface{ String() string }:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	default:
		return decimal.Decimal{}, false
	}
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func currencySymbol(code string) string {
	switch strings.ToUpper(code) {
	case "KES":
		return "KSh "
	case "EUR":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	default:
		return strings.ToUpper(code) + " "
	}
}

// OrderStatusColor is the swatch shown next to an order status.
func OrderStatusColor(status string) string {
	switch status {
	case "pending":
		return "yellow"
	case "paid", "delivered":
		return "green"
	case "processing":
		return "blue"
	case "shipped":
		return "cyan"
	case "cancelled":
		return "red"
	default:
		return "gray"
	}
}

func TransactionStatusColor(status string) string {
	switch status {
	case "PENDING":
		return "yellow"
	case "COMPLETED":
		return "green"
	case "FAILED":
		return "red"
	default:
		return "gray"
	}
}

// MaskKey keeps the first and last four characters of a secret.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("•", len(key))
	}
	return key[:4] + strings.Repeat("•", 8) + key[len(key)-4:]
}
