package sim

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWrongSide rejects a reduce-only order that does not oppose the
	// current position (e.g. a reduce-only buy while flat or long).
	ErrWrongSide = errors.New("reduce-only order on wrong side of position")

	// ErrInvalidOrder rejects orders with unusable parameters.
	ErrInvalidOrder = errors.New("invalid order")
)

// Rejection is an order the simulator refused. The run continues with
// state unchanged.
type Rejection struct {
	Order Order
	Time  time.Time
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("rejected %s at %s: %v", r.Order, r.Time.Format(time.RFC3339), r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }
