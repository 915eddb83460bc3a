package payment

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status is the verification state of an uploaded payment proof.
//
//	Pending ─> Verified
//	   │
//	   └─────> Rejected ─> Pending (resubmission)
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusVerified
	StatusRejected
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:  "unknown",
		StatusPending:  "pending",
		StatusVerified: "verified",
		StatusRejected: "rejected",
	}
}

func ParseStatus(s string) (Status, error) {
	for st, name := range getStatusStrings() {
		if st != StatusUnknown && name == s {
			return st, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a payment status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusRejected {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%d is not a payment status", s))
	}
	return nil
}
