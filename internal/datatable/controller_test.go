package datatable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mondedesparfum.com/admin/internal/apiclient"
)

type fakeAPI struct {
	mu      sync.Mutex
	calls   []apiclient.Request
	handler func(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

func (f *fakeAPI) Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	h := f.handler
	f.mu.Unlock()
	if h == nil {
		return pageResp(), nil
	}
	return h(ctx, req)
}

func (f *fakeAPI) Calls() []apiclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]apiclient.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

func pageResp(rows ...map[string]any) *apiclient.Response {
	if rows == nil {
		rows = []map[string]any{}
	}
	b, _ := json.Marshal(map[string]any{"count": len(rows), "results": rows})
	return &apiclient.Response{Status: http.StatusOK, Data: b}
}

func ordersTable() *Table {
	return &Table{
		ID:       "orders",
		Title:    "Orders",
		URL:      "/commerce/orders",
		BasePath: "/admin/ecommerce/orders",
		DefaultFilters: Filters{
			Page:     1,
			Limit:    10,
			Ordering: "id",
		},
		FilterFields: []FilterField{
			TextFilter("search", "Search", "Search orders"),
			SelectFilter("status", "Status", Opts("pending", "paid")...),
		},
	}
}

func TestLoad_SendsFiltersAndPublishesRows(t *testing.T) {
	api := &fakeAPI{handler: func(context.Context, apiclient.Request) (*apiclient.Response, error) {
		return pageResp(map[string]any{"id": 1, "order_number": "ORD-1"}), nil
	}}
	tbl := ordersTable()
	c := NewController(tbl, api)
	assert.Equal(t, StatusIdle, c.Snapshot().Status)

	snap, err := c.Load(context.Background(), tbl.DefaultFilters)
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/commerce/orders", calls[0].URL)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "1", calls[0].Params.Get("page"))
	assert.Equal(t, "10", calls[0].Params.Get("limit"))
	assert.Equal(t, "id", calls[0].Params.Get("ordering"))

	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, 1, snap.Count)
	require.Len(t, snap.Rows, 1)
	assert.Equal(t, "ORD-1", snap.Rows[0].String("order_number"))
}

// Changing one filter triggers exactly one new list request carrying the
// new value, back on page 1.
func TestFilterChange_IssuesExactlyOneRequest(t *testing.T) {
	api := &fakeAPI{}
	tbl := ordersTable()
	c := NewController(tbl, api)

	f := tbl.DefaultFilters.With(KeyPage, "3")
	_, err := c.Load(context.Background(), f)
	require.NoError(t, err)

	_, err = c.Load(context.Background(), c.Filters().With("status", "paid"))
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "3", calls[0].Params.Get("page"))
	assert.Equal(t, "paid", calls[1].Params.Get("status"))
	assert.Equal(t, "1", calls[1].Params.Get("page"))
}

// A slow response that arrives after a newer load must not replace the
// newer rows.
func TestLoad_SupersededResultIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{handler: func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
		if req.Params.Get("search") == "slow" {
			close(started)
			<-release // ignores cancellation on purpose
			return pageResp(map[string]any{"id": 1, "name": "slow"}), nil
		}
		return pageResp(map[string]any{"id": 2, "name": "fast"}), nil
	}}

	superseded := 0
	tbl := ordersTable()
	c := NewController(tbl, api)
	c.OnSuperseded = func() { superseded++ }

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "slow"))
		errCh <- err
	}()
	<-started

	snap, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "fast"))
	require.NoError(t, err)
	assert.Equal(t, "fast", snap.Rows[0].String("name"))

	close(release)
	assert.ErrorIs(t, <-errCh, ErrSuperseded)

	final := c.Snapshot()
	assert.Equal(t, StatusSuccess, final.Status)
	assert.Equal(t, "fast", final.Rows[0].String("name"))
	assert.Equal(t, "fast", final.Filters.Search)
	assert.Equal(t, 1, superseded)
}

func TestLoad_NewLoadCancelsInFlight(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	api := &fakeAPI{handler: func(ctx context.Context, req apiclient.Request) (*apiclient.Response, error) {
		if req.Params.Get("search") == "first" {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return pageResp(), nil
	}}
	tbl := ordersTable()
	c := NewController(tbl, api)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "first"))
		errCh <- err
	}()
	<-started

	_, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "second"))
	require.NoError(t, err)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("in-flight load was not cancelled")
	}
	assert.ErrorIs(t, <-errCh, ErrSuperseded)
	assert.Equal(t, StatusSuccess, c.Snapshot().Status)
}

func TestLoad_ErrorKeepsStaleRows(t *testing.T) {
	fail := false
	api := &fakeAPI{handler: func(context.Context, apiclient.Request) (*apiclient.Response, error) {
		if fail {
			return nil, &apiclient.Error{Status: http.StatusInternalServerError, Message: "Request failed with status code 500"}
		}
		return pageResp(map[string]any{"id": 1}), nil
	}}
	tbl := ordersTable()
	c := NewController(tbl, api)

	_, err := c.Load(context.Background(), tbl.DefaultFilters)
	require.NoError(t, err)

	fail = true
	snap, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "x"))
	require.Error(t, err)
	assert.Equal(t, StatusError, snap.Status)
	assert.Len(t, snap.Rows, 1)
	assert.Equal(t, "Request failed with status code 500", NewView(tbl, snap).ErrorMessage())

	// no automatic retry
	assert.Len(t, api.Calls(), 2)
}

// A confirmed delete sends one DELETE and then one list re-fetch.
func TestDelete_OneDeleteThenOneRefetch(t *testing.T) {
	api := &fakeAPI{}
	tbl := ordersTable()
	c := NewController(tbl, api)

	_, err := c.Load(context.Background(), tbl.DefaultFilters.With(KeySearch, "oud"))
	require.NoError(t, err)

	_, err = c.Delete(context.Background(), "12")
	require.NoError(t, err)

	calls := api.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, http.MethodDelete, calls[1].Method)
	assert.Equal(t, "/commerce/orders/12", calls[1].URL)
	assert.Equal(t, http.MethodGet, calls[2].Method)
	assert.Equal(t, "oud", calls[2].Params.Get("search"))
}

func TestDelete_FailureSkipsRefetch(t *testing.T) {
	api := &fakeAPI{handler: func(_ context.Context, req apiclient.Request) (*apiclient.Response, error) {
		if req.Method == http.MethodDelete {
			return nil, errors.New("boom")
		}
		return pageResp(), nil
	}}
	c := NewController(ordersTable(), api)

	_, err := c.Delete(context.Background(), "1")
	require.Error(t, err)
	assert.Len(t, api.Calls(), 1)
}

func TestDelete_CustomRequest(t *testing.T) {
	api := &fakeAPI{}
	tbl := ordersTable()
	tbl.DeleteRequest = func(id string) apiclient.Request {
		return apiclient.Request{URL: "/users/auth/api-keys-delete", Method: http.MethodPost, Data: map[string]string{"id": id}}
	}
	c := NewController(tbl, api)

	_, err := c.Delete(context.Background(), "5")
	require.NoError(t, err)
	calls := api.Calls()
	assert.Equal(t, "/users/auth/api-keys-delete", calls[0].URL)
	assert.Equal(t, map[string]string{"id": "5"}, calls[0].Data)
}

func TestRegistry_ReusesControllerPerOwnerAndTable(t *testing.T) {
	r := NewRegistry(time.Minute, nil)
	tbl := ordersTable()
	other := &Table{ID: "products"}

	a := r.Controller("owner-1", tbl, &fakeAPI{})
	assert.Same(t, a, r.Controller("owner-1", tbl, &fakeAPI{}))
	assert.NotSame(t, a, r.Controller("owner-2", tbl, &fakeAPI{}))
	assert.NotSame(t, a, r.Controller("owner-1", other, &fakeAPI{}))
	assert.Equal(t, 3, r.Len())

	r.Forget("owner-1")
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SweepsIdleControllers(t *testing.T) {
	now := time.Now()
	r := NewRegistry(time.Minute, nil)
	r.now = func() time.Time { return now }

	r.Controller("owner-1", ordersTable(), &fakeAPI{})
	now = now.Add(2 * time.Minute)
	r.Controller("owner-2", ordersTable(), &fakeAPI{})
	assert.Equal(t, 1, r.Len())
}
