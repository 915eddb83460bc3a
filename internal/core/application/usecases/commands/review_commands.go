package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/pkg/guard"
)

var ErrSubmitReviewCommandIsNotConstructed = errors.New(
	"SubmitReviewCommand must be created via NewSubmitReviewCommand constructor",
)

// SubmitReviewCommand rates an order whose delivery the customer confirmed.
// Score ranges are checked by the review aggregate.
type SubmitReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID kernel.UUID
	orderID  kernel.UUID
	customer kernel.Actor
	scores   review.Scores
	comment  string

	guard guard.ConstructorGuard
}

func NewSubmitReviewCommand(
	reviewID, orderID kernel.UUID,
	customer kernel.Actor,
	scores review.Scores,
	comment string,
) (SubmitReviewCommand, error) {
	if err := errors.Join(
		reviewID.Validate(),
		orderID.Validate(),
		customer.Require(kernel.CapSubmitReview),
	); err != nil {
		return SubmitReviewCommand{}, err
	}

	return SubmitReviewCommand{
		reviewID: reviewID,
		orderID:  orderID,
		customer: customer,
		scores:   scores,
		comment:  comment,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitReviewCommandIsNotConstructed)
}

func (c SubmitReviewCommand) ReviewID() kernel.UUID {
	return c.reviewID
}

func (c SubmitReviewCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitReviewCommand) Customer() kernel.Actor {
	return c.customer
}

func (c SubmitReviewCommand) Scores() review.Scores {
	return c.scores
}

func (c SubmitReviewCommand) Comment() string {
	return c.comment
}

var ErrUpdateReviewCommandIsNotConstructed = errors.New(
	"UpdateReviewCommand must be created via NewUpdateReviewCommand constructor",
)

// UpdateReviewCommand lets the author change scores and comment.
type UpdateReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID kernel.UUID
	customer kernel.Actor
	scores   review.Scores
	comment  string

	guard guard.ConstructorGuard
}

func NewUpdateReviewCommand(
	reviewID kernel.UUID,
	customer kernel.Actor,
	scores review.Scores,
	comment string,
) (UpdateReviewCommand, error) {
	if err := errors.Join(
		reviewID.Validate(),
		customer.Require(kernel.CapSubmitReview),
	); err != nil {
		return UpdateReviewCommand{}, err
	}

	return UpdateReviewCommand{
		reviewID: reviewID,
		customer: customer,
		scores:   scores,
		comment:  comment,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateReviewCommand) Validate() error {
	return c.guard.Validate(ErrUpdateReviewCommandIsNotConstructed)
}

func (c UpdateReviewCommand) ReviewID() kernel.UUID {
	return c.reviewID
}

func (c UpdateReviewCommand) Customer() kernel.Actor {
	return c.customer
}

func (c UpdateReviewCommand) Scores() review.Scores {
	return c.scores
}

func (c UpdateReviewCommand) Comment() string {
	return c.comment
}

var ErrModerateReviewCommandIsNotConstructed = errors.New(
	"ModerateReviewCommand must be created via NewModerateReviewCommand constructor",
)

// ModerateReviewCommand approves or hides a review. Only approved reviews
// count towards the listing rating.
type ModerateReviewCommand struct { //nolint:recvcheck //using for validation
	reviewID kernel.UUID
	admin    kernel.Actor
	approved bool

	guard guard.ConstructorGuard
}

func NewModerateReviewCommand(reviewID kernel.UUID, admin kernel.Actor, approved bool) (ModerateReviewCommand, error) {
	if err := errors.Join(
		reviewID.Validate(),
		admin.Require(kernel.CapModerateReview),
	); err != nil {
		return ModerateReviewCommand{}, err
	}

	return ModerateReviewCommand{
		reviewID: reviewID,
		admin:    admin,
		approved: approved,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ModerateReviewCommand) Validate() error {
	return c.guard.Validate(ErrModerateReviewCommandIsNotConstructed)
}

func (c ModerateReviewCommand) ReviewID() kernel.UUID {
	return c.reviewID
}

func (c ModerateReviewCommand) Admin() kernel.Actor {
	return c.admin
}

func (c ModerateReviewCommand) Approved() bool {
	return c.approved
}
