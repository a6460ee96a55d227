package orders

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/internal/apiclient"
)

type recorder struct {
	calls []apiclient.Request
	body  string
	err   error
}

func (r *recorder) Do(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
	r.calls = append(r.calls, req)
	if r.err != nil {
		return nil, r.err
	}
	return &apiclient.Response{Status: http.StatusOK, Data: []byte(r.body)}, nil
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseStatus("refunded")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, "Processing", StatusProcessing.Label())
}

func TestTransitionPostsStatus(t *testing.T) {
	rec := &recorder{body: `{"status":"shipped"}`}
	to, err := NewAdminService(rec).Transition(context.Background(), TransitionInput{OrderID: "12", Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, to)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, http.MethodPost, rec.calls[0].Method)
	assert.Equal(t, "/commerce/orders/12/update_status", rec.calls[0].URL)
	assert.Equal(t, map[string]string{"status": "shipped"}, rec.calls[0].Data)
}

func TestTransitionRejectsUnknownStatusWithoutCall(t *testing.T) {
	rec := &recorder{}
	_, err := NewAdminService(rec).Transition(context.Background(), TransitionInput{OrderID: "12", Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = NewAdminService(rec).Transition(context.Background(), TransitionInput{Status: "paid"})
	assert.ErrorIs(t, err, ErrNotActionable)
	assert.Empty(t, rec.calls)
}

func TestTransitionSurfacesBackendError(t *testing.T) {
	backendErr := &apiclient.Error{Status: http.StatusBadRequest, Message: "Invalid status"}
	rec := &recorder{err: backendErr}
	_, err := NewAdminService(rec).Transition(context.Background(), TransitionInput{OrderID: "3", Status: "paid"})
	assert.True(t, errors.Is(err, backendErr))
}

func TestGetDecodesOrder(t *testing.T) {
	rec := &recorder{body: `{
		"id": 7, "order_number": "ORD-7", "status": "paid", "status_display": "Paid",
		"first_name": "Ada", "last_name": "L", "subtotal": "120.00", "shipping_cost": 5,
		"tax": "0.00", "discount": "10.50", "total": "114.50", "is_paid": true,
		"discount_code": {"id": 2, "code": "SPRING", "discount_type": "fixed", "value": "10.50"},
		"items": [{"id": 1, "product": 9, "product_name": "Oud", "quantity": 2, "price": "60.00"}],
		"transaction": {"id": 4, "transaction_id": "TX-1", "amount": "114.50", "currency": "KES", "status": "COMPLETED"}
	}`}

	o, err := NewAdminService(rec).Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "/commerce/orders/7", rec.calls[0].URL)
	assert.Equal(t, apiclient.ID("7"), o.ID)
	assert.Equal(t, "Ada L", o.CustomerName())
	assert.Equal(t, "Paid", o.StatusLabel())
	assert.Equal(t, "114.5", o.Total.String())
	assert.Equal(t, "5", o.ShippingCost.String())
	require.NotNil(t, o.DiscountCode)
	assert.Equal(t, "SPRING", o.DiscountCode.Code)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "120", o.Items[0].LineTotal().String())
	require.NotNil(t, o.Transaction)
	assert.Equal(t, TxCompleted, o.Transaction.Status)
}
