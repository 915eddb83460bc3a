package commands_test

import (
	"testing"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/services"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioOrder is the 5 kg, 8000 per kg, 6 km order: 40000 + 12000 + 1200.
func scenarioOrder(t *testing.T, method order.PaymentMethod, discount int64) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(kernel.MoneyFromInt(40000), kernel.MoneyFromInt(12000),
		kernel.MoneyFromInt(1200), kernel.MoneyFromInt(discount))
	require.NoError(t, err)

	now := time.Now().UTC()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       kernel.NewUUID(),
		PartnerID:       kernel.NewUUID(),
		ServiceType:     "regular",
		PaymentMethod:   method,
		Weight:          decimal.NewFromInt(5),
		Distance:        decimal.NewFromInt(6),
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now,
	}, pricing, nil, now)
	require.NoError(t, err)
	return o
}

func settle(t *testing.T, uow *MockUoW, cmd commands.SettleOrderCommand) (*payout.Payout, error) {
	t.Helper()
	factory := new(MockSettlementUoWFactory)
	factory.On("Create").Return(uow).Once()
	h := commands.NewSettleOrderCommandHandler(factory, services.NewSettlementEngine())
	return h.Handle(t.Context(), cmd)
}

func TestSettleOrderCommandHandler_Handle_WorkedScenarios(t *testing.T) {
	tests := []struct {
		name     string
		discount int64
		gross    string
		earning  string
	}{
		{"without voucher", 0, "53200.00", "52000.00"},
		{"with fixed voucher of 10000", 10000, "43200.00", "42000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			o := scenarioOrder(t, order.PaymentQRIS, tt.discount)
			p := submittedPayment(t, o)
			require.NoError(t, p.Verify(adminActor(t), "", time.Now()))
			require.NoError(t, o.MarkPaid())
			paymentID := p.ID()
			cmd, err := commands.NewSettleOrderCommand(o.ID(), &paymentID, adminActor(t))
			require.NoError(t, err)

			uow := newMockUoW()
			uow.expectTx(ctx)
			uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
			uow.Payments.On("Get", ctx, p.ID()).Return(p, nil).Once()
			uow.Payouts.On("GetByOrder", ctx, o.ID()).Return(nil, notSettled(o)).Once()
			uow.Payments.On("GetByOrder", ctx, o.ID()).Return(p, nil).Once()
			uow.Partners.On("Get", ctx, o.PartnerID()).Return(verifiedPartner(t, o.PartnerID()), nil).Once()
			uow.Payouts.On("Add", ctx, payoutWithEarning(tt.earning)).Return(nil).Once()

			created, err := settle(t, uow, cmd)

			require.NoError(t, err)
			assert.Equal(t, tt.gross, created.GrossAmount().String())
			assert.Equal(t, "1200.00", created.PlatformFee().String())
			assert.Equal(t, tt.earning, created.Earning().String())
			assert.Equal(t, "Siti Rahayu", created.Bank().AccountHolder)
			uow.assertAll(t)
		})
	}
}

func TestSettleOrderCommandHandler_Handle_Failures(t *testing.T) {
	t.Run("already settled", func(t *testing.T) {
		ctx := t.Context()
		o := scenarioOrder(t, order.PaymentCOD, 0)
		moveTo(t, o, order.Delivered)
		cmd, err := commands.NewSettleOrderCommand(o.ID(), nil, adminActor(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Payouts.On("GetByOrder", ctx, o.ID()).Return(existingPayout(t, o), nil).Once()

		_, err = settle(t, uow, cmd)

		require.ErrorIs(t, err, payout.ErrAlreadySettled)
		uow.assertAll(t)
	})

	t.Run("concurrent duplicate hits the unique index", func(t *testing.T) {
		ctx := t.Context()
		o := scenarioOrder(t, order.PaymentCOD, 0)
		moveTo(t, o, order.Delivered)
		cmd, err := commands.NewSettleOrderCommand(o.ID(), nil, adminActor(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Payouts.On("GetByOrder", ctx, o.ID()).Return(nil, notSettled(o)).Once()
		uow.Partners.On("Get", ctx, o.PartnerID()).Return(verifiedPartner(t, o.PartnerID()), nil).Once()
		uow.Payouts.On("Add", ctx, payoutWithEarning("52000.00")).Return(payout.ErrAlreadySettled).Once()

		_, err = settle(t, uow, cmd)

		require.ErrorIs(t, err, payout.ErrAlreadySettled)
		uow.assertAll(t)
	})

	t.Run("payment not submitted", func(t *testing.T) {
		ctx := t.Context()
		o := scenarioOrder(t, order.PaymentQRIS, 0)
		cmd, err := commands.NewSettleOrderCommand(o.ID(), nil, adminActor(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Payouts.On("GetByOrder", ctx, o.ID()).Return(nil, notSettled(o)).Once()
		uow.Payments.On("GetByOrder", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("orderID", o.ID())).Once()

		_, err = settle(t, uow, cmd)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
		uow.assertAll(t)
	})

	t.Run("pending payment", func(t *testing.T) {
		ctx := t.Context()
		o := scenarioOrder(t, order.PaymentQRIS, 0)
		p := submittedPayment(t, o)
		cmd, err := commands.NewSettleOrderCommand(o.ID(), nil, adminActor(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Payouts.On("GetByOrder", ctx, o.ID()).Return(nil, notSettled(o)).Once()
		uow.Payments.On("GetByOrder", ctx, o.ID()).Return(p, nil).Once()
		uow.Partners.On("Get", ctx, o.PartnerID()).Return(verifiedPartner(t, o.PartnerID()), nil).Once()

		_, err = settle(t, uow, cmd)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
		uow.assertAll(t)
	})

	t.Run("payment of another order", func(t *testing.T) {
		ctx := t.Context()
		o := scenarioOrder(t, order.PaymentQRIS, 0)
		other := submittedPayment(t, scenarioOrder(t, order.PaymentQRIS, 0))
		paymentID := other.ID()
		cmd, err := commands.NewSettleOrderCommand(o.ID(), &paymentID, adminActor(t))
		require.NoError(t, err)

		uow := newMockUoW()
		uow.expectAbort(ctx)
		uow.Orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		uow.Payments.On("Get", ctx, other.ID()).Return(other, nil).Once()

		_, err = settle(t, uow, cmd)

		require.ErrorIs(t, err, services.ErrPaymentNotVerified)
		uow.assertAll(t)
	})
}

func TestNewSettleOrderCommand_AdminOnly(t *testing.T) {
	_, err := commands.NewSettleOrderCommand(kernel.NewUUID(), nil, mustActor(t, kernel.RolePartner, kernel.NewUUID()))
	require.ErrorIs(t, err, kernel.ErrForbidden)
}
