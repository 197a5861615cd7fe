package cartsync

import "errors"

var (
	// ErrOperationInFlight means another mutation on this cart has not
	// resolved yet. Callers retry after the in-flight call settles.
	ErrOperationInFlight = errors.New("another cart operation is in flight")

	// ErrCartStale marks a cart whose last mutation succeeded remotely but
	// whose reconciliation failed. Writes are refused until a Load succeeds.
	ErrCartStale = errors.New("cart state is stale, reload before writing")
)
