package forms

import (
	"strings"
	"time"

	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/validation"
)

var DiscountTypes = []datatable.Option{
	{Value: "percentage", Label: "Percentage"},
	{Value: "fixed", Label: "Fixed Amount"},
}

type DiscountInput struct {
	Code         string `form:"code" validate:"required"`
	DiscountType string `form:"discount_type" validate:"required,oneof=percentage fixed"`
	Value        string `form:"value" validate:"required,decimal,dgt=0"`
	MinPurchase  string `form:"min_purchase" validate:"omitempty,decimal"`
	MaxDiscount  string `form:"max_discount" validate:"omitempty,decimal"`
	UsageLimit   string `form:"usage_limit" validate:"omitempty,number"`
	StartDate    string `form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string `form:"end_date" validate:"required,datetime=2006-01-02,dategtefield=StartDate"`
	Description  string `form:"description"`
}

var DiscountForm = &Definition[DiscountInput]{
	Title:    "Discount",
	Resource: "/commerce/discounts",
	Messages: validation.Messages{
		"code":                  "Code is required",
		"discount_type":         "Choose a discount type",
		"value.required":        "Value is required",
		"value.dgt":             "Value must be greater than 0",
		"value.decimal":         "Value must be a number",
		"min_purchase":          "Minimum purchase must be a number",
		"max_discount":          "Maximum discount must be a number",
		"usage_limit":           "Usage limit must be a whole number",
		"start_date":            "Start date is required",
		"end_date.dategtefield": "End date cannot be before start date",
		"end_date":              "End date is required",
	},
	Defaults: func() DiscountInput {
		today := time.Now().Format(time.DateOnly)
		return DiscountInput{StartDate: today, EndDate: today}
	},
	Encode:     encodeDiscount,
	CreatedMsg: "Discount created successfully",
	UpdatedMsg: "Discount updated successfully",
}

func encodeDiscount(d DiscountInput) Payload {
	body := map[string]any{
		"code":          d.Code,
		"discount_type": d.DiscountType,
		"value":         normalizeDecimal(d.Value),
		"min_purchase":  optional(normalizeDecimal(d.MinPurchase)),
		"max_discount":  optional(normalizeDecimal(d.MaxDiscount)),
		"usage_limit":   optional(d.UsageLimit),
		"start_date":    dayStart(d.StartDate),
		"end_date":      dayEnd(d.EndDate),
		"description":   d.Description,
	}
	return Payload{JSON: body}
}

func DiscountFromRecord(r datatable.Record) DiscountInput {
	return DiscountInput{
		Code:         r.String("code"),
		DiscountType: r.String("discount_type"),
		Value:        r.String("value"),
		MinPurchase:  r.String("min_purchase"),
		MaxDiscount:  r.String("max_discount"),
		UsageLimit:   r.String("usage_limit"),
		StartDate:    datePart(r.String("start_date")),
		EndDate:      datePart(r.String("end_date")),
		Description:  r.String("description"),
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dayStart(date string) string { return date + "T00:00:00Z" }

func dayEnd(date string) string { return date + "T23:59:59Z" }

// datePart keeps the YYYY-MM-DD prefix of a backend timestamp.
func datePart(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 {
		return ts[:i]
	}
	return ts
}
