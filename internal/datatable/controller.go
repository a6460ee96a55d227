package datatable

import (
	"context"
	"errors"
	"sync"

	"mondedesparfum.com/admin/internal/apiclient"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrSuperseded is returned by a load that finished after a newer one started.
var ErrSuperseded = errors.New("datatable: load superseded by a newer request")

// Snapshot is the observable state of a controller.
type Snapshot struct {
	Status  Status
	Filters Filters
	Rows    []Record
	Count   int
	Err     error
}

// SupersededHook is told about every discarded load.
type SupersededHook func()

// Controller owns the fetch lifecycle of one table for one viewer. A new
// Load cancels the one in flight, and only the latest load may publish.
type Controller struct {
	table *Table
	api   apiclient.Doer

	// OnSuperseded is optional.
	OnSuperseded SupersededHook

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	status  Status
	filters Filters
	rows    []Record
	count   int
	err     error
}

func NewController(t *Table, api apiclient.Doer) *Controller {
	return &Controller{
		table:   t,
		api:     api,
		status:  StatusIdle,
		filters: t.DefaultFilters.Clone(),
	}
}

func (c *Controller) Table() *Table { return c.table }

// Load issues exactly one list request for f. Rows from the previous
// success stay in place while loading and after an error.
func (c *Controller) Load(ctx context.Context, f Filters) (Snapshot, error) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.status = StatusLoading
	c.filters = f.Clone()
	api := c.api
	c.mu.Unlock()
	defer cancel()

	var page apiclient.Page
	resp, err := api.Do(ctx, c.table.listRequest(f))
	if err == nil {
		page, err = resp.Page()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		if c.OnSuperseded != nil {
			c.OnSuperseded()
		}
		return c.snapshotLocked(), ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		c.status = StatusError
		c.err = err
		return c.snapshotLocked(), err
	}

	c.status = StatusSuccess
	c.err = nil
	c.rows = Records(page.Results)
	c.count = page.Count
	return c.snapshotLocked(), nil
}

// Refresh reloads with the current filters.
func (c *Controller) Refresh(ctx context.Context) (Snapshot, error) {
	return c.Load(ctx, c.Filters())
}

// Delete removes one row and re-fetches once. The caller is responsible
// for having confirmed the deletion.
func (c *Controller) Delete(ctx context.Context, id string) (Snapshot, error) {
	c.mu.Lock()
	api := c.api
	c.mu.Unlock()

	if _, err := api.Do(ctx, c.table.deleteRequest(id)); err != nil {
		return c.Snapshot(), err
	}
	return c.Refresh(ctx)
}

func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.Clone()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	rows := make([]Record, len(c.rows))
	copy(rows, c.rows)
	return Snapshot{
		Status:  c.status,
		Filters: c.filters.Clone(),
		Rows:    rows,
		Count:   c.count,
		Err:     c.err,
	}
}
