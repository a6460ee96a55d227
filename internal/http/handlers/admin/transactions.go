package admin

import "github.com/gin-gonic/gin"

// TransactionHandlers only lists; transactions are written by the payment
// flow on the backend.
type TransactionHandlers struct {
	d *Deps
}

func NewTransactionHandlers(d *Deps) *TransactionHandlers { return &TransactionHandlers{d: d} }

func (h *TransactionHandlers) List(c *gin.Context) {
	h.d.list(c, h.d.transactionsTable(), "transactions")
}
