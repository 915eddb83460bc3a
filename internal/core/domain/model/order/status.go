package order

import (
	"errors"
	"fmt"

	"laundry/internal/pkg/errs"
)

// ErrInvalidTransition is returned for any status change the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status represents the lifecycle state of a laundry order.
//
// State transitions:
//
//	Pending ─> PickedUp ─> Processing ─> Ready ─> InTransit ─> Delivered
//	   │           │            │          │          │
//	   └───────────┴────────────┴──────────┴──────────┴──────> Cancelled
//
// Progress is monotonic: a status may move to any later status in the chain
// (partners may skip steps, e.g. Pending -> Delivered) but never back.
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the order is waiting for pickup.
	Pending

	// PickedUp means the partner collected the laundry from the customer.
	PickedUp

	// Processing means the laundry is being washed.
	Processing

	// Ready means the laundry is clean and waiting to be sent back.
	Ready

	// InTransit means the laundry is on its way to the customer.
	InTransit

	// Delivered is terminal: the laundry reached the customer.
	Delivered

	// Cancelled is terminal and reachable from every non-terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		PickedUp:   "picked_up",
		Processing: "processing",
		Ready:      "ready",
		InTransit:  "in_transit",
		Delivered:  "delivered",
		Cancelled:  "cancelled",
	}
}

// ParseStatus maps a persisted or API status name to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined lifecycle states.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is Unknown or out of range
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name used in storage and the HTTP API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether the lifecycle allows moving from s to target.
//
// Allowed:
//   - any non-terminal status -> Cancelled
//   - any non-terminal status -> a later status in the progress chain
//
// Everything else, including self-transitions, backwards moves and any move
// out of a terminal status, is rejected.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Validate() != nil || target.Validate() != nil || s.IsTerminal() {
		return false
	}
	if target == Cancelled {
		return true
	}
	return target > s
}

// TransitionTo returns target if the move is allowed, or an error wrapping
// ErrInvalidTransition.
//
// Example:
//
//	next, err := order.Ready.TransitionTo(order.InTransit)
//	if err != nil {
//	    // errors.Is(err, order.ErrInvalidTransition)
//	}
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, target)
	}
	return target, nil
}
