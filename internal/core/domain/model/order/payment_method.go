package order

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// PaymentMethod is how the customer pays for an order. COD is settled in cash
// at hand-over; every other method needs an uploaded, admin-verified proof.
type PaymentMethod int

const (
	PaymentMethodUnknown PaymentMethod = iota
	PaymentCOD
	PaymentQRIS
	PaymentBRI
	PaymentBCA
	PaymentSeaBank
	PaymentShopeePay
)

func getPaymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentMethodUnknown: "unknown",
		PaymentCOD:           "cod",
		PaymentQRIS:          "qris",
		PaymentBRI:           "bri",
		PaymentBCA:           "bca",
		PaymentSeaBank:       "seabank",
		PaymentShopeePay:     "shopee",
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for m, name := range getPaymentMethodStrings() {
		if m != PaymentMethodUnknown && name == s {
			return m, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause(
		"paymentMethod", fmt.Errorf("%q is not a supported payment method", s))
}

func (m PaymentMethod) String() string {
	if s, ok := getPaymentMethodStrings()[m]; ok {
		return s
	}
	return "unknown"
}

func (m PaymentMethod) Validate() error {
	if m <= PaymentMethodUnknown || m > PaymentShopeePay {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%d is not a supported payment method", m))
	}
	return nil
}

func (m PaymentMethod) IsCOD() bool {
	return m == PaymentCOD
}
