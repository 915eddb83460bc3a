package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/review"
)

// SubmitReviewCommandHandler stores the single review of an order and
// refreshes the listing rating in the same transaction.
type SubmitReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewSubmitReviewCommandHandler(uowFactory ReviewUoWFactory) SubmitReviewCommandHandler {
	return SubmitReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns review.ErrOrderNotReviewable until delivery is confirmed and
// review.ErrReviewAlreadySubmitted for a second review of the order.
func (h *SubmitReviewCommandHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	r, err := review.NewReview(cmd.ReviewID(), o, cmd.Customer(), cmd.Scores(), cmd.Comment(), now)
	if err != nil {
		return err
	}
	if err = uow.ReviewRepository().Add(ctx, r); err != nil {
		return err
	}
	if err = recalculateListingRating(ctx, uow, r.ListingID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// UpdateReviewCommandHandler edits a review and refreshes the listing rating.
type UpdateReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewUpdateReviewCommandHandler(uowFactory ReviewUoWFactory) UpdateReviewCommandHandler {
	return UpdateReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *UpdateReviewCommandHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reviewRepo := uow.ReviewRepository()
	r, err := reviewRepo.Get(ctx, cmd.ReviewID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = r.Update(cmd.Customer(), cmd.Scores(), cmd.Comment(), now); err != nil {
		return err
	}
	if err = reviewRepo.Update(ctx, r); err != nil {
		return err
	}
	if err = recalculateListingRating(ctx, uow, r.ListingID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// ModerateReviewCommandHandler approves or hides a review. The listing rating
// is refreshed only when the approval flag actually changed.
type ModerateReviewCommandHandler struct {
	uowFactory ReviewUoWFactory
}

func NewModerateReviewCommandHandler(uowFactory ReviewUoWFactory) ModerateReviewCommandHandler {
	return ModerateReviewCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h *ModerateReviewCommandHandler) Handle(ctx context.Context, cmd ModerateReviewCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reviewRepo := uow.ReviewRepository()
	r, err := reviewRepo.Get(ctx, cmd.ReviewID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	changed, err := r.SetApproval(cmd.Admin(), cmd.Approved(), now)
	if err != nil || !changed {
		return err
	}
	if err = reviewRepo.Update(ctx, r); err != nil {
		return err
	}
	if err = recalculateListingRating(ctx, uow, r.ListingID(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// recalculateListingRating locks the listing row before reading the approved
// ratings, so concurrent review writes on one listing apply one at a time.
func recalculateListingRating(ctx context.Context, uow ReviewUoW, listingID kernel.UUID, now time.Time) error {
	listingRepo := uow.ListingRepository()
	l, err := listingRepo.GetForUpdate(ctx, listingID)
	if err != nil {
		return err
	}

	ratings, err := uow.ReviewRepository().ApprovedRatings(ctx, listingID)
	if err != nil {
		return err
	}

	l.RecalculateRating(ratings, now)
	return listingRepo.UpdateRating(ctx, l)
}
