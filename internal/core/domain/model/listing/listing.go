// Package listing models a partner's laundry listing: the price per kilogram
// customers are charged, its location, and the rating aggregate derived from
// approved reviews.
package listing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrListingIsNotConstructed = errors.New("Listing must be created via NewListing or RestoreListing constructor")

	// ErrBelowMinimumWeight is returned for orders lighter than the listing accepts.
	ErrBelowMinimumWeight = errors.New("order weight is below the listing minimum")
)

// Listing is the aggregate root for a partner's laundry offering.
//
// Invariants:
//   - price per kilogram is positive
//   - rating is the one-decimal average of approved review ratings, or 0 with no reviews
type Listing struct {
	id              kernel.UUID
	partnerID       kernel.UUID
	name            string
	pricePerKg      kernel.Money
	minWeight       decimal.Decimal
	location        kernel.Coordinates
	rating          decimal.Decimal
	totalReviews    int
	completedOrders int
	active          bool
	open            bool

	event.Recorder
	isConstructed bool
}

// NewListing creates an active, open listing with no reviews.
//
// Example:
//
//	loc, _ := kernel.NewCoordinates(-7.2575, 112.7521)
//	l, err := listing.NewListing(kernel.NewUUID(), partnerID, "Bersih Kilat", kernel.MoneyFromInt(8000), decimal.NewFromInt(2), loc)
func NewListing(
	id, partnerID kernel.UUID,
	name string,
	pricePerKg kernel.Money,
	minWeight decimal.Decimal,
	location kernel.Coordinates,
) (*Listing, error) {
	l := &Listing{
		rating:        decimal.Zero,
		active:        true,
		open:          true,
		isConstructed: true,
	}

	if err := errors.Join(
		l.setIDs(id, partnerID),
		l.setName(name),
		l.setPricing(pricePerKg, minWeight),
		l.setLocation(location),
	); err != nil {
		return nil, err
	}

	return l, nil
}

// RestoreListing rebuilds a listing from storage.
func RestoreListing(
	id, partnerID kernel.UUID,
	name string,
	pricePerKg kernel.Money,
	minWeight decimal.Decimal,
	location kernel.Coordinates,
	rating decimal.Decimal,
	totalReviews, completedOrders int,
	active, open bool,
) (*Listing, error) {
	l, err := NewListing(id, partnerID, name, pricePerKg, minWeight, location)
	if err != nil {
		return nil, err
	}

	if totalReviews < 0 || completedOrders < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("listingCounters", errors.New("counters must not be negative"))
	}

	l.rating = rating
	l.totalReviews = totalReviews
	l.completedOrders = completedOrders
	l.active = active
	l.open = open
	return l, nil
}

func (l *Listing) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrListingIsNotConstructed
	}
	return nil
}

func (l *Listing) ID() kernel.UUID {
	return l.id
}

func (l *Listing) PartnerID() kernel.UUID {
	return l.partnerID
}

func (l *Listing) Name() string {
	return l.name
}

func (l *Listing) PricePerKg() kernel.Money {
	return l.pricePerKg
}

// MinWeight is the smallest order weight in kilograms the partner accepts.
func (l *Listing) MinWeight() decimal.Decimal {
	return l.minWeight
}

func (l *Listing) Location() kernel.Coordinates {
	return l.location
}

func (l *Listing) Rating() decimal.Decimal {
	return l.rating
}

func (l *Listing) TotalReviews() int {
	return l.totalReviews
}

func (l *Listing) CompletedOrders() int {
	return l.completedOrders
}

func (l *Listing) IsActive() bool {
	return l.active
}

func (l *Listing) IsOpen() bool {
	return l.open
}

// IsAvailable reports whether the listing accepts new orders.
func (l *Listing) IsAvailable() bool {
	return l.active && l.open
}

// AcceptWeight checks weight against the listing's minimum order weight.
func (l *Listing) AcceptWeight(weight decimal.Decimal) error {
	if weight.LessThan(l.minWeight) {
		return fmt.Errorf("%w: %s kg < %s kg", ErrBelowMinimumWeight, weight, l.minWeight)
	}
	return nil
}

// SetOpen opens or closes the listing for new orders.
func (l *Listing) SetOpen(open bool) {
	l.open = open
}

func (l *Listing) Deactivate() {
	l.active = false
}

// RecalculateRating replaces the rating aggregate with the average of
// approvedRatings rounded to one decimal. No ratings reset it to 0 and 0.
//
// Example:
//
//	l.RecalculateRating([]int{5, 4, 4}, time.Now()) // rating 4.3, 3 reviews
func (l *Listing) RecalculateRating(approvedRatings []int, now time.Time) {
	rating := decimal.Zero
	if len(approvedRatings) > 0 {
		sum := 0
		for _, r := range approvedRatings {
			sum += r
		}
		rating = decimal.NewFromInt(int64(sum)).
			Div(decimal.NewFromInt(int64(len(approvedRatings)))).
			Round(1)
	}

	if rating.Equal(l.rating) && len(approvedRatings) == l.totalReviews {
		return
	}

	l.rating = rating
	l.totalReviews = len(approvedRatings)
	l.Record(event.New(event.ListingRatingChanged, l.id, now, map[string]any{
		"rating":       rating.StringFixed(1),
		"totalReviews": l.totalReviews,
	}))
}

func (l *Listing) setIDs(id, partnerID kernel.UUID) error {
	if err := errors.Join(id.Validate(), partnerID.Validate()); err != nil {
		return err
	}
	l.id = id
	l.partnerID = partnerID
	return nil
}

func (l *Listing) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	l.name = name
	return nil
}

func (l *Listing) setPricing(pricePerKg kernel.Money, minWeight decimal.Decimal) error {
	var errList []error
	if !pricePerKg.IsPositive() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"pricePerKg", fmt.Errorf("%s is not greater than 0", pricePerKg)))
	}
	if minWeight.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"minWeight", fmt.Errorf("%s is negative", minWeight)))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	l.pricePerKg = pricePerKg
	l.minWeight = minWeight
	return nil
}

func (l *Listing) setLocation(location kernel.Coordinates) error {
	if err := location.Validate(); err != nil {
		return err
	}
	l.location = location
	return nil
}
