package http

import (
	"errors"
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var statusByKind = []struct {
	status int
	kinds  []error
}{
	{http.StatusForbidden, []error{kernel.ErrForbidden}},
	{http.StatusConflict, []error{
		errs.ErrConcurrentModification,
		errs.ErrVersionIsInvalid,
		payout.ErrAlreadySettled,
		payout.ErrInvalidTransferTransition,
		review.ErrReviewAlreadySubmitted,
		voucher.ErrVoucherQuotaExhausted,
		payment.ErrPaymentAlreadyVerified,
		payment.ErrPaymentNotPending,
		order.ErrInvalidTransition,
		order.ErrRepriceNotAllowed,
		order.ErrOrderCancelled,
	}},
	{http.StatusUnprocessableEntity, []error{
		services.ErrInvalidWeight,
		services.ErrListingUnavailable,
		services.ErrPaymentNotVerified,
		listing.ErrBelowMinimumWeight,
		voucher.ErrVoucherInvalid,
		payment.ErrCODNeedsNoPayment,
		partner.ErrBankAccountNotVerified,
		review.ErrOrderNotReviewable,
	}},
	{http.StatusNotFound, []error{errs.ErrObjectNotFound}},
	{http.StatusBadRequest, []error{
		errs.ErrValueIsInvalid,
		errs.ErrValueIsRequired,
		errs.ErrValueIsOutOfRange,
		queries.ErrDistanceOrPickupIsRequired,
		commands.ErrAddressIsRequired,
		errMissingActor,
	}},
}

// StatusOf maps an application error to its HTTP status. Unknown errors are
// internal server errors.
func StatusOf(err error) int {
	for _, group := range statusByKind {
		for _, kind := range group.kinds {
			if errors.Is(err, kind) {
				return group.status
			}
		}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NewErrorHandler renders errors as Error bodies. Internal errors are logged
// and hidden from the client.
func NewErrorHandler(logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, message := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			status = StatusOf(err)
			if status != http.StatusInternalServerError {
				message = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, Error{Code: status, Message: message})
		}
		if writeErr != nil {
			logger.WithError(writeErr).Warn("writing error response failed")
		}
	}
}
