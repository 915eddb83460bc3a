package ports

import (
	"context"

	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/core/domain/model/voucher"
)

// ListingRepository persists partner listings.
type ListingRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error)

	// GetForUpdate locks the listing row until the transaction ends, so
	// concurrent rating recomputations are serialized.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error)

	// UpdateRating stores the rating aggregate only.
	UpdateRating(ctx context.Context, aggregate *listing.Listing) error

	// IncrementCompletedOrders atomically adds one to the completed-order counter.
	IncrementCompletedOrders(ctx context.Context, id kernel.UUID) error
}

// VoucherRepository persists vouchers.
type VoucherRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*voucher.Voucher, error)

	// GetByCode looks a voucher up by its upper-case code.
	GetByCode(ctx context.Context, code string) (*voucher.Voucher, error)

	// IncrementUsage consumes one unit of quota with a single conditional
	// update. It returns voucher.ErrVoucherQuotaExhausted when no quota is left.
	IncrementUsage(ctx context.Context, id kernel.UUID) error
}

// FeeScheduleRepository loads the COD fee tiers.
type FeeScheduleRepository interface {
	Get(ctx context.Context) (fee.Schedule, error)
}

// PartnerRepository reads partner accounts.
type PartnerRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error)
}

// PaymentRepository persists payments. Update is a compare-and-swap on the version.
type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error
	Update(ctx context.Context, aggregate *payment.Payment) error
	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	// GetByOrder returns errs.ErrObjectNotFound when the order has no payment.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)
}

// PayoutRepository persists payouts.
type PayoutRepository interface {
	// Add returns payout.ErrAlreadySettled when the order already has a payout.
	Add(ctx context.Context, aggregate *payout.Payout) error
	Update(ctx context.Context, aggregate *payout.Payout) error
	Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error)

	// GetByOrder returns errs.ErrObjectNotFound when the order is not settled.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error)
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	// Add returns review.ErrReviewAlreadySubmitted when the order was already reviewed.
	Add(ctx context.Context, aggregate *review.Review) error
	Update(ctx context.Context, aggregate *review.Review) error
	Get(ctx context.Context, id kernel.UUID) (*review.Review, error)

	// ApprovedRatings returns the overall ratings of the listing's approved reviews.
	ApprovedRatings(ctx context.Context, listingID kernel.UUID) ([]int, error)
}
