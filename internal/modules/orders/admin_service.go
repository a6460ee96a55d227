package orders

import (
	"context"
	"net/http"
	"strings"

	"mondedesparfum.com/admin/internal/apiclient"
)

const Resource = "/commerce/orders"

// AdminService reads orders and changes their status through the backend.
type AdminService struct {
	api apiclient.Doer
}

func NewAdminService(api apiclient.Doer) *AdminService { return &AdminService{api: api} }

func (s *AdminService) Get(ctx context.Context, id string) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, ErrNotActionable
	}
	resp, err := s.api.Do(ctx, apiclient.Request{URL: Resource + "/" + id, Method: http.MethodGet})
	if err != nil {
		return Order{}, err
	}
	var o Order
	if err := resp.Decode(&o); err != nil {
		return Order{}, err
	}
	return o, nil
}

type TransitionInput struct {
	OrderID string
	Status  string
}

// Transition posts the new status. The value is checked against the known
// statuses before any request is made.
func (s *AdminService) Transition(ctx context.Context, in TransitionInput) (Status, error) {
	if strings.TrimSpace(in.OrderID) == "" {
		return "", ErrNotActionable
	}
	to, err := ParseStatus(in.Status)
	if err != nil {
		return "", err
	}

	_, err = s.api.Do(ctx, apiclient.Request{
		URL:    Resource + "/" + strings.TrimSpace(in.OrderID) + "/update_status",
		Method: http.MethodPost,
		Data:   map[string]string{"status": string(to)},
	})
	if err != nil {
		return "", err
	}
	return to, nil
}
