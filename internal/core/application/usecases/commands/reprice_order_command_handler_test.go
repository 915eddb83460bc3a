package commands_test

import (
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orderFor is a pending 5 kg order on l priced 54500, optionally with a voucher.
func orderFor(t *testing.T, l *listing.Listing, voucherID *kernel.UUID) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(kernel.MoneyFromInt(50000), kernel.MoneyFromInt(3000),
		kernel.MoneyFromInt(1500), kernel.ZeroMoney())
	require.NoError(t, err)

	now := time.Now().UTC()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       l.ID(),
		PartnerID:       l.PartnerID(),
		ServiceType:     "regular",
		PaymentMethod:   order.PaymentCOD,
		Weight:          decimal.NewFromInt(5),
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now,
	}, pricing, voucherID, now)
	require.NoError(t, err)
	return o
}

func TestNewRepriceOrderCommand(t *testing.T) {
	_, err := commands.NewRepriceOrderCommand(kernel.NewUUID(), mustActor(t, kernel.RoleCustomer, kernel.NewUUID()),
		decimal.NewFromInt(5), decimal.NullDecimal{})
	require.ErrorIs(t, err, kernel.ErrForbidden)

	_, err = commands.NewRepriceOrderCommand(kernel.NewUUID(), adminActor(t),
		decimal.NewFromInt(5), decimal.NewNullDecimal(decimal.NewFromInt(-1)))
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestRepriceOrderCommandHandler_Handle(t *testing.T) {
	handle := func(t *testing.T, uow *MockUoW, cmd commands.RepriceOrderCommand) error {
		t.Helper()
		factory := new(MockOrderingUoWFactory)
		factory.On("Create").Return(uow).Once()
		logger, _ := testLogger()
		h := commands.NewRepriceOrderCommandHandler(factory, testPricingEngine(t), logger)
		return h.Handle(t.Context(), cmd)
	}

	t.Run("measured weight replaces the breakdown", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := orderFor(t, l, nil)
		cmd, err := commands.NewRepriceOrderCommand(o.ID(), mustActor(t, kernel.RolePartner, l.PartnerID()),
			decimal.RequireFromString("6.4"), decimal.NullDecimal{})
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Listings.On("Get", ctx, l.ID()).Return(l, nil).Once()
		uow.FeeSchedules.On("Get", ctx).Return(testSchedule(t), nil).Once()
		uow.Orders.On("Update", ctx, o).Return(nil).Once()

		require.NoError(t, handle(t, uow, cmd))

		assert.Equal(t, "6.4", o.Weight().String())
		assert.Equal(t, "64000.00", o.Pricing().LaundryPrice().String())
		assert.Equal(t, "1920.00", o.Pricing().PlatformFee().String())
		assert.Equal(t, "68920.00", o.Pricing().TotalPrice().String())
		uow.assertAll(t)
	})

	t.Run("redeemed voucher is applied again", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		v := fixedVoucher(t, l, 4500)
		id := v.ID()
		o := orderFor(t, l, &id)
		cmd, err := commands.NewRepriceOrderCommand(o.ID(), adminActor(t),
			decimal.RequireFromString("6.4"), decimal.NewNullDecimal(decimal.RequireFromString("7.5")))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectTx(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Listings.On("Get", ctx, l.ID()).Return(l, nil).Once()
		uow.FeeSchedules.On("Get", ctx).Return(testSchedule(t), nil).Once()
		uow.Vouchers.On("Get", ctx, v.ID()).Return(v, nil).Once()
		uow.Orders.On("Update", ctx, o).Return(nil).Once()

		require.NoError(t, handle(t, uow, cmd))

		assert.Equal(t, "7.5", o.Distance().String())
		assert.Equal(t, "5000.00", o.Pricing().CODFee().String())
		assert.Equal(t, "4500.00", o.Pricing().VoucherDiscount().String())
		assert.Equal(t, "66420.00", o.Pricing().TotalPrice().String())
		uow.assertAll(t)
	})

	t.Run("processing order keeps its price", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := orderFor(t, l, nil)
		moveTo(t, o, order.Processing)
		cmd, err := commands.NewRepriceOrderCommand(o.ID(), adminActor(t), decimal.NewFromInt(8), decimal.NullDecimal{})
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Listings.On("Get", ctx, l.ID()).Return(l, nil).Once()
		uow.FeeSchedules.On("Get", ctx).Return(testSchedule(t), nil).Once()

		err = handle(t, uow, cmd)

		require.ErrorIs(t, err, order.ErrRepriceNotAllowed)
		assert.Equal(t, "54500.00", o.Pricing().TotalPrice().String())
		uow.assertAll(t)
	})

	t.Run("invalid weight", func(t *testing.T) {
		ctx := t.Context()
		l := testListing(t)
		o := orderFor(t, l, nil)
		cmd, err := commands.NewRepriceOrderCommand(o.ID(), adminActor(t), decimal.NewFromInt(1001), decimal.NullDecimal{})
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Listings.On("Get", ctx, l.ID()).Return(l, nil).Once()
		uow.FeeSchedules.On("Get", ctx).Return(testSchedule(t), nil).Once()

		err = handle(t, uow, cmd)

		require.ErrorIs(t, err, services.ErrInvalidWeight)
		uow.assertAll(t)
	})
}
