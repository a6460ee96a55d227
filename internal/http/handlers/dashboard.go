package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/modules/stats"
	"mondedesparfum.com/admin/pkg/view"
)

type DashboardHandler struct {
	api *apiclient.Client
	log *slog.Logger
}

func NewDashboardHandler(api *apiclient.Client, l *slog.Logger) *DashboardHandler {
	return &DashboardHandler{api: api, log: l}
}

// Get shows the store totals. A backend failure still renders the page
// with an error banner.
func (h *DashboardHandler) Get(c *gin.Context) {
	page := view.DashboardPage{Layout: render.Layout(c, "Dashboard", "dashboard")}

	s, err := stats.Fetch(c.Request.Context(), Backend(c, h.api))
	if err != nil {
		h.log.LogAttrs(c.Request.Context(), slog.LevelWarn, "stats_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("err", err),
		)
		page.Error = "Could not load statistics."
		if ae, ok := apiclient.AsError(err); ok {
			page.Error = ae.Message
		}
		render.Page(c, http.StatusOK, "dashboard", page)
		return
	}

	page.Cards = []view.StatCard{
		{Title: "Total Sales", Value: view.Money(s.TotalSales, view.DefaultCurrency), Color: "green"},
		{Title: "Orders", Value: strconv.Itoa(s.TotalOrders), Color: "blue"},
		{Title: "Products", Value: strconv.Itoa(s.TotalProducts), Color: "cyan"},
		{Title: "Categories", Value: strconv.Itoa(s.TotalCategories), Color: "orange"},
		{Title: "Discounts", Value: strconv.Itoa(s.TotalDiscounts), Color: "yellow"},
	}
	page.Transactions = []view.StatCard{
		{Title: "Pending", Value: strconv.Itoa(s.Transactions.Pending), Color: view.TransactionStatusColor("PENDING")},
		{Title: "Completed", Value: strconv.Itoa(s.Transactions.Completed), Color: view.TransactionStatusColor("COMPLETED")},
		{Title: "Failed", Value: strconv.Itoa(s.Transactions.Failed), Color: view.TransactionStatusColor("FAILED")},
	}
	render.Page(c, http.StatusOK, "dashboard", page)
}
