package payout

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status is the state of the bank transfer to the partner.
//
//	Pending ─> Processing ─> Completed
//	   │           │
//	   └───────────┴───────> Failed
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusProcessing
	StatusCompleted
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusProcessing: "processing",
		StatusCompleted:  "completed",
		StatusFailed:     "failed",
	}
}

func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != StatusUnknown && name == s {
			return st, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("payoutStatus", fmt.Errorf("%q is not a payout status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusFailed {
		return errs.NewValueIsInvalidErrorWithCause("payoutStatus", fmt.Errorf("%d is not a payout status", s))
	}
	return nil
}

// IsTerminal reports whether the transfer is finished either way.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}
