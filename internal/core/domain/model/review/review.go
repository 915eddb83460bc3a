// Package review models the customer's rating of a delivered order. Approved
// reviews feed the listing's rating aggregate.
package review

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"laundry/internal/core/domain/model/event"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/errs"
)

const (
	MinScore     = 1
	MaxScore     = 5
	DefaultScore = 5
)

var (
	ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview or RestoreReview constructor")

	// ErrOrderNotReviewable is returned until the customer has confirmed delivery.
	ErrOrderNotReviewable = errors.New("order delivery has not been confirmed by the customer")

	// ErrReviewAlreadySubmitted is returned for a second review of the same order.
	ErrReviewAlreadySubmitted = errors.New("order has already been reviewed")
)

// Scores are the overall rating and the three sub-ratings. A zero sub-rating
// defaults to DefaultScore.
type Scores struct {
	Rating         int
	ServiceQuality int
	Cleanliness    int
	Speed          int
}

func (s Scores) normalized() (Scores, error) {
	for _, sub := range []*int{&s.ServiceQuality, &s.Cleanliness, &s.Speed} {
		if *sub == 0 {
			*sub = DefaultScore
		}
	}

	var errList []error
	for name, v := range map[string]int{
		"rating":         s.Rating,
		"serviceQuality": s.ServiceQuality,
		"cleanliness":    s.Cleanliness,
		"speed":          s.Speed,
	} {
		if v < MinScore || v > MaxScore {
			errList = append(errList, errs.NewValueIsOutOfRangeError(name, v, MinScore, MaxScore))
		}
	}
	return s, errors.Join(errList...)
}

// State is the persisted form of a review.
type State struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	ListingID  kernel.UUID
	Scores     Scores
	Comment    string
	Approved   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Review is one per order and authored by the order's customer.
type Review struct {
	id         kernel.UUID
	orderID    kernel.UUID
	customerID kernel.UUID
	listingID  kernel.UUID
	scores     Scores
	comment    string
	approved   bool
	createdAt  time.Time
	updatedAt  time.Time

	event.Recorder
	isConstructed bool
}

// NewReview creates an approved review of o. The order must be delivered with
// a confirmed actual delivery time, and actor must be its customer.
//
// Example:
//
//	r, err := review.NewReview(kernel.NewUUID(), o, customer,
//	    review.Scores{Rating: 4, Cleanliness: 5}, "wangi", time.Now())
func NewReview(id kernel.UUID, o *order.Order, actor kernel.Actor, scores Scores, comment string, now time.Time) (*Review, error) {
	if err := errors.Join(id.Validate(), o.Validate()); err != nil {
		return nil, err
	}
	if err := actor.Require(kernel.CapSubmitReview); err != nil {
		return nil, err
	}
	if !actor.ID().IsEqual(o.CustomerID()) {
		return nil, fmt.Errorf("%w: customer %s did not place order %s", kernel.ErrForbidden, actor.ID(), o.Number())
	}
	if !o.CanBeReviewed() {
		return nil, fmt.Errorf("%w: %s is %s", ErrOrderNotReviewable, o.Number(), o.Status())
	}

	normalized, err := scores.normalized()
	if err != nil {
		return nil, err
	}

	r := &Review{
		id:            id,
		orderID:       o.ID(),
		customerID:    o.CustomerID(),
		listingID:     o.ListingID(),
		scores:        normalized,
		comment:       strings.TrimSpace(comment),
		approved:      true,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	r.Record(event.New(event.ReviewSubmitted, id, now, map[string]any{
		"orderId":   r.orderID.String(),
		"listingId": r.listingID.String(),
		"rating":    normalized.Rating,
	}))
	return r, nil
}

// RestoreReview rebuilds a review from storage.
func RestoreReview(s State) (*Review, error) {
	scores, scoreErr := s.Scores.normalized()
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.CustomerID.Validate(),
		s.ListingID.Validate(),
		scoreErr,
	); err != nil {
		return nil, err
	}

	return &Review{
		id:            s.ID,
		orderID:       s.OrderID,
		customerID:    s.CustomerID,
		listingID:     s.ListingID,
		scores:        scores,
		comment:       s.Comment,
		approved:      s.Approved,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		isConstructed: true,
	}, nil
}

func (r *Review) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReviewIsNotConstructed
	}
	return nil
}

func (r *Review) ID() kernel.UUID {
	return r.id
}

func (r *Review) OrderID() kernel.UUID {
	return r.orderID
}

func (r *Review) CustomerID() kernel.UUID {
	return r.customerID
}

func (r *Review) ListingID() kernel.UUID {
	return r.listingID
}

func (r *Review) Scores() Scores {
	return r.scores
}

func (r *Review) Rating() int {
	return r.scores.Rating
}

func (r *Review) Comment() string {
	return r.comment
}

func (r *Review) IsApproved() bool {
	return r.approved
}

func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Review) UpdatedAt() time.Time {
	return r.updatedAt
}

// Update replaces scores and comment. Only the author may edit.
func (r *Review) Update(actor kernel.Actor, scores Scores, comment string, now time.Time) error {
	if err := actor.Require(kernel.CapSubmitReview); err != nil {
		return err
	}
	if !actor.ID().IsEqual(r.customerID) {
		return fmt.Errorf("%w: customer %s did not write review %s", kernel.ErrForbidden, actor.ID(), r.id)
	}

	normalized, err := scores.normalized()
	if err != nil {
		return err
	}

	r.scores = normalized
	r.comment = strings.TrimSpace(comment)
	r.updatedAt = now
	r.Record(event.New(event.ReviewUpdated, r.id, now, map[string]any{
		"orderId":   r.orderID.String(),
		"listingId": r.listingID.String(),
		"rating":    normalized.Rating,
	}))
	return nil
}

// SetApproval approves or hides the review. It reports whether the flag changed.
func (r *Review) SetApproval(actor kernel.Actor, approved bool, now time.Time) (bool, error) {
	if err := actor.Require(kernel.CapModerateReview); err != nil {
		return false, err
	}
	if r.approved == approved {
		return false, nil
	}

	r.approved = approved
	r.updatedAt = now
	r.Record(event.New(event.ReviewModerated, r.id, now, map[string]any{
		"listingId": r.listingID.String(),
		"approved":  approved,
		"adminId":   actor.ID().String(),
	}))
	return true, nil
}
