package voucher

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Kind selects how a voucher's discount is computed.
type Kind int

const (
	// KindUnknown marks a kind this version does not understand. Such vouchers
	// can be loaded from storage but always yield a zero discount.
	KindUnknown Kind = iota
	KindFreeShipping
	KindPercentage
	KindFixed
	KindFreeKg
)

func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUnknown:      "unknown",
		KindFreeShipping: "free_shipping",
		KindPercentage:   "percentage_discount",
		KindFixed:        "fixed_discount",
		KindFreeKg:       "free_kg",
	}
}

// ParseKind maps the persisted name of a kind. Unrecognised names return
// KindUnknown together with an error.
func ParseKind(s string) (Kind, error) {
	for k, name := range getKindStrings() {
		if k != KindUnknown && name == s {
			return k, nil
		}
	}
	return KindUnknown, errs.NewValueIsInvalidErrorWithCause("voucherKind", fmt.Errorf("%q is not a known voucher kind", s))
}

func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "unknown"
}

// Validate rejects KindUnknown and out-of-range values.
func (k Kind) Validate() error {
	if k <= KindUnknown || k > KindFreeKg {
		return errs.NewValueIsInvalidErrorWithCause("voucherKind", fmt.Errorf("%d is not a valid voucher kind", k))
	}
	return nil
}
