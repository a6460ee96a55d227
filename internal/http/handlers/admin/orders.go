package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"mondedesparfum.com/admin/internal/apiclient"
	"mondedesparfum.com/admin/internal/datatable"
	"mondedesparfum.com/admin/internal/http/handlers"
	"mondedesparfum.com/admin/internal/http/middleware"
	"mondedesparfum.com/admin/internal/http/render"
	"mondedesparfum.com/admin/internal/modules/orders"
	"mondedesparfum.com/admin/internal/shared/apperr"
	"mondedesparfum.com/admin/pkg/view"
)

type OrderHandlers struct {
	d *Deps
}

func NewOrderHandlers(d *Deps) *OrderHandlers { return &OrderHandlers{d: d} }

func (h *OrderHandlers) table(c *gin.Context, returnTo string) *datatable.Table {
	return h.d.ordersTable(middleware.CSRFField(c), returnTo)
}

func (h *OrderHandlers) List(c *gin.Context) {
	h.d.list(c, h.table(c, c.Request.URL.RequestURI()), "orders")
}

func (h *OrderHandlers) ConfirmDelete(c *gin.Context) {
	h.d.confirmDelete(c, h.table(c, ordersPath), "orders")
}

func (h *OrderHandlers) Delete(c *gin.Context) {
	h.d.delete(c, h.table(c, ordersPath), "orders", "Order deleted successfully")
}

// Detail is the order information page.
func (h *OrderHandlers) Detail(c *gin.Context) {
	o, err := orders.NewAdminService(h.d.backend(c)).Get(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
	case errors.Is(err, orders.ErrNotActionable), apiclient.IsStatus(err, http.StatusNotFound):
		middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		return
	default:
		middleware.Fail(c, apperr.UpstreamErr(errorMessage(err), err))
		return
	}

	render.Page(c, http.StatusOK, "order", view.AdminOrderPage{
		Layout: render.Layout(c, "Order "+o.OrderNumber, "orders"),
		Order:  orderDetail(o),
	})
}

// Status moves an order to the posted status and goes back to where the
// form was submitted from.
func (h *OrderHandlers) Status(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	back := handlers.NormalizeReturnTo(c.PostForm("return_to"))
	if back == "" {
		back = ordersPath
	}

	to, err := orders.NewAdminService(h.d.backend(c)).Transition(c.Request.Context(), orders.TransitionInput{
		OrderID: id,
		Status:  c.PostForm("status"),
	})
	if err != nil {
		h.d.Log.LogAttrs(c.Request.Context(), slog.LevelWarn, "order_status_failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("order_id", id),
			slog.String("status", c.PostForm("status")),
			slog.Any("err", err),
		)
		msg := errorMessage(err)
		if errors.Is(err, orders.ErrInvalidStatus) || errors.Is(err, orders.ErrNotActionable) {
			msg = "Choose a valid order status."
		}
		render.RedirectNotice(c, h.d.Flash, back, view.Flash{Kind: view.FlashError, Title: "Order Status", Message: msg})
		return
	}

	h.d.Log.LogAttrs(c.Request.Context(), slog.LevelInfo, "order_status_updated",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("order_id", id),
		slog.String("status", string(to)),
	)
	render.RedirectNotice(c, h.d.Flash, back, view.Flash{
		Kind:    view.FlashSuccess,
		Title:   "Order Status",
		Message: "Order status updated to " + to.Label() + ".",
	})
}

func orderDetail(o orders.Order) view.AdminOrderDetail {
	money := func(d decimal.Decimal) string { return view.Money(d, view.DefaultCurrency) }

	discountCode := "N/A"
	if o.DiscountCode != nil && o.DiscountCode.Code != "" {
		discountCode = o.DiscountCode.Code
	}

	out := view.AdminOrderDetail{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		StatusLabel: o.StatusLabel(),
		IsPaid:      o.IsPaid,
		PaymentURL:  o.PaymentURL,
		Properties: []view.AdminOrderProperty{
			{Property: "Order Number", Value: o.OrderNumber},
			{Property: "Status", Value: o.StatusLabel()},
			{Property: "Customer", Value: o.CustomerName()},
			{Property: "Email", Value: o.Email},
			{Property: "Phone", Value: o.PhoneNumber},
			{Property: "Shipping Address", Value: o.ShippingAddress},
			{Property: "Billing Address", Value: o.BillingAddress},
			{Property: "Subtotal", Value: money(o.Subtotal)},
			{Property: "Shipping Cost", Value: money(o.ShippingCost)},
			{Property: "Tax", Value: money(o.Tax)},
			{Property: "Discount", Value: money(o.Discount)},
			{Property: "Discount Code", Value: discountCode},
			{Property: "Total", Value: money(o.Total)},
			{Property: "Notes", Value: o.Notes},
		},
		Statuses: statusOptions(string(o.Status)),
	}
	if o.TrackingNumber != "" {
		out.Properties = append(out.Properties, view.AdminOrderProperty{Property: "Tracking Number", Value: o.TrackingNumber})
	}
	if o.Transaction != nil {
		out.PaymentMethod = o.Transaction.PaymentMethod
		out.ConfirmationCode = o.Transaction.ConfirmationCode
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, view.AdminOrderItem{
			ProductName: it.ProductName,
			Qty:         it.Quantity,
			Unit:        money(it.Price),
			Line:        money(it.LineTotal()),
		})
	}
	return out
}
