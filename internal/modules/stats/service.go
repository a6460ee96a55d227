// Package stats reads the store-wide totals shown on the dashboard.
package stats

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"mondedesparfum.com/admin/internal/apiclient"
)

const Resource = "/commerce/stats"

type TransactionCounts struct {
	Pending   int `json:"pending_transactions"`
	Completed int `json:"completed_transactions"`
	Failed    int `json:"failed_transactions"`
}

func (t TransactionCounts) Total() int { return t.Pending + t.Completed + t.Failed }

type Stats struct {
	TotalSales      decimal.Decimal   `json:"total_sales"`
	TotalOrders     int               `json:"total_orders"`
	TotalProducts   int               `json:"total_products"`
	TotalCategories int               `json:"total_categories"`
	TotalDiscounts  int               `json:"total_discounts"`
	Transactions    TransactionCounts `json:"transactions"`
}

func Fetch(ctx context.Context, api apiclient.Doer) (Stats, error) {
	resp, err := api.Do(ctx, apiclient.Request{URL: Resource, Method: http.MethodGet})
	if err != nil {
		return Stats{}, err
	}
	var s Stats
	if err := resp.Decode(&s); err != nil {
		return Stats{}, err
	}
	return s, nil
}
