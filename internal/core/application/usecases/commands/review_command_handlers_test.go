package commands_test

import (
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// deliveredOrderOn is an order on l whose delivery the customer confirmed.
func deliveredOrderOn(t *testing.T, l *listing.Listing) *order.Order {
	t.Helper()
	o := orderFor(t, l, nil)
	moveTo(t, o, order.Ready)
	require.NoError(t, o.ConfirmDelivery(customerOf(t, o), "", time.Now().UTC()))
	return o
}

func reviewFactory(uow *MockUoW) *MockReviewUoWFactory {
	factory := new(MockReviewUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory
}

func TestSubmitReviewCommandHandler_Handle(t *testing.T) {
	t.Run("review refreshes the listing rating", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := deliveredOrderOn(t, l)
		cmd, err := commands.NewSubmitReviewCommand(kernel.NewUUID(), o.ID(), customerOf(t, o),
			review.Scores{Rating: 4}, "wangi")
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Reviews.On("Add", ctx, mock.MatchedBy(func(r *review.Review) bool {
			return r.Rating() == 4 && r.Scores().Speed == review.DefaultScore && r.IsApproved()
		})).Return(nil).Once()
		uow.Listings.On("GetForUpdate", ctx, l.ID()).Return(l, nil).Once()
		uow.Reviews.On("ApprovedRatings", ctx, l.ID()).Return([]int{5, 4, 4}, nil).Once()
		uow.Listings.On("UpdateRating", ctx, l).Return(nil).Once()

		h := commands.NewSubmitReviewCommandHandler(reviewFactory(uow))
		require.NoError(t, h.Handle(ctx, cmd))

		assert.Equal(t, "4.3", l.Rating().String())
		assert.Equal(t, 3, l.TotalReviews())
		uow.assertAll(t)
	})

	t.Run("partner-delivered order is not reviewable", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := orderFor(t, l, nil)
		moveTo(t, o, order.Delivered)
		cmd, err := commands.NewSubmitReviewCommand(kernel.NewUUID(), o.ID(), customerOf(t, o), review.Scores{Rating: 5}, "")
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		h := commands.NewSubmitReviewCommandHandler(reviewFactory(uow))
		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, review.ErrOrderNotReviewable)
		uow.assertAll(t)
	})

	t.Run("second review is rejected", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := deliveredOrderOn(t, l)
		cmd, err := commands.NewSubmitReviewCommand(kernel.NewUUID(), o.ID(), customerOf(t, o), review.Scores{Rating: 5}, "")
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Reviews.On("Add", ctx, mock.Anything).Return(review.ErrReviewAlreadySubmitted).Once()

		h := commands.NewSubmitReviewCommandHandler(reviewFactory(uow))
		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, review.ErrReviewAlreadySubmitted)
		uow.assertAll(t)
	})

	t.Run("out of range score", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := deliveredOrderOn(t, l)
		cmd, err := commands.NewSubmitReviewCommand(kernel.NewUUID(), o.ID(), customerOf(t, o), review.Scores{Rating: 6}, "")
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		h := commands.NewSubmitReviewCommandHandler(reviewFactory(uow))
		err = h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		uow.assertAll(t)
	})
}

func TestUpdateReviewCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	l := testListing(t)
	o := deliveredOrderOn(t, l)
	r, err := review.NewReview(kernel.NewUUID(), o, customerOf(t, o), review.Scores{Rating: 2}, "", time.Now())
	require.NoError(t, err)
	cmd, err := commands.NewUpdateReviewCommand(r.ID(), customerOf(t, o), review.Scores{Rating: 5}, "better now")
	require.NoError(t, err)

	uow := newMockUoW()
	uow.expectTx(ctx)
	uow.Reviews.On("Get", ctx, r.ID()).Return(r, nil).Once()
	uow.Reviews.On("Update", ctx, r).Return(nil).Once()
	uow.Listings.On("GetForUpdate", ctx, l.ID()).Return(l, nil).Once()
	uow.Reviews.On("ApprovedRatings", ctx, l.ID()).Return([]int{5}, nil).Once()
	uow.Listings.On("UpdateRating", ctx, l).Return(nil).Once()

	h := commands.NewUpdateReviewCommandHandler(reviewFactory(uow))
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, 5, r.Rating())
	assert.Equal(t, "better now", r.Comment())
	assert.Equal(t, "5", l.Rating().String())
	uow.assertAll(t)
}

func TestModerateReviewCommandHandler_Handle(t *testing.T) {
	newReview := func(t *testing.T, l *listing.Listing) *review.Review {
		t.Helper()
		o := deliveredOrderOn(t, l)
		r, err := review.NewReview(kernel.NewUUID(), o, customerOf(t, o), review.Scores{Rating: 1}, "", time.Now())
		require.NoError(t, err)
		return r
	}

	t.Run("hiding the only review resets the rating", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		l.RecalculateRating([]int{1}, time.Now())
		r := newReview(t, l)
		cmd, err := commands.NewModerateReviewCommand(r.ID(), adminActor(t), false)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.Reviews.On("Get", ctx, r.ID()).Return(r, nil).Once()
		uow.Reviews.On("Update", ctx, r).Return(nil).Once()
		uow.Listings.On("GetForUpdate", ctx, l.ID()).Return(l, nil).Once()
		uow.Reviews.On("ApprovedRatings", ctx, l.ID()).Return([]int{}, nil).Once()
		uow.Listings.On("UpdateRating", ctx, l).Return(nil).Once()

		h := commands.NewModerateReviewCommandHandler(reviewFactory(uow))
		require.NoError(t, h.Handle(ctx, cmd))

		assert.False(t, r.IsApproved())
		assert.True(t, l.Rating().IsZero())
		assert.Equal(t, 0, l.TotalReviews())
		uow.assertAll(t)
	})

	t.Run("unchanged approval touches nothing", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		r := newReview(t, l)
		cmd, err := commands.NewModerateReviewCommand(r.ID(), adminActor(t), true)
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Reviews.On("Get", ctx, r.ID()).Return(r, nil).Once()

		h := commands.NewModerateReviewCommandHandler(reviewFactory(uow))
		require.NoError(t, h.Handle(ctx, cmd))
		uow.assertAll(t)
	})
}

func TestNewModerateReviewCommand_AdminOnly(t *testing.T) {
	_, err := commands.NewModerateReviewCommand(kernel.NewUUID(), mustActor(t, kernel.RoleCustomer, kernel.NewUUID()), true)
	require.ErrorIs(t, err, kernel.ErrForbidden)
}
