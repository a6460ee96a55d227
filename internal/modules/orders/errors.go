package orders

import "errors"

var (
	ErrInvalidStatus = errors.New("invalid order status")
	ErrNotActionable = errors.New("order not actionable")
)
