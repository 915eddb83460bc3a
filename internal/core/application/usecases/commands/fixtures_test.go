package commands_test

import (
	"testing"
	"time"

	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func mustActor(t *testing.T, role kernel.Role, id kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(role, id)
	require.NoError(t, err)
	return a
}

func adminActor(t *testing.T) kernel.Actor {
	t.Helper()
	return mustActor(t, kernel.RoleAdmin, kernel.NewUUID())
}

func surabaya(t *testing.T) kernel.Coordinates {
	t.Helper()
	c, err := kernel.NewCoordinates(-7.2575, 112.7521)
	require.NoError(t, err)
	return c
}

// testListing prices laundry at 10000 per kg with a 2 kg minimum.
func testListing(t *testing.T) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(kernel.NewUUID(), kernel.NewUUID(), "Bersih Kilat",
		kernel.MoneyFromInt(10000), decimal.NewFromInt(2), surabaya(t))
	require.NoError(t, err)
	return l
}

// testSchedule charges 3000 up to 5 km and falls back to 5000.
func testSchedule(t *testing.T) fee.Schedule {
	t.Helper()
	tier, err := fee.NewTier(decimal.Zero, decimal.NewFromInt(5), kernel.MoneyFromInt(3000), true)
	require.NoError(t, err)
	return fee.NewSchedule([]fee.Tier{tier}, fee.DefaultFee)
}

func testPricingEngine(t *testing.T) services.PricingEngine {
	t.Helper()
	engine, err := services.NewPricingEngine(services.DefaultPlatformFeeRate, order.MaxWeight)
	require.NoError(t, err)
	return engine
}

func testLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logger, hook
}

func verifiedPartner(t *testing.T, id kernel.UUID) *partner.Partner {
	t.Helper()
	account, err := partner.NewBankAccount("BCA", "1234567890", "Siti Rahayu")
	require.NoError(t, err)
	p, err := partner.RestorePartner(id, "Bersih Kilat", &account)
	require.NoError(t, err)
	return p
}

// testOrder is a 5 kg order priced 50000 + 3000 + 1500 = 54500.
func testOrder(t *testing.T, method order.PaymentMethod) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(kernel.MoneyFromInt(50000), kernel.MoneyFromInt(3000),
		kernel.MoneyFromInt(1500), kernel.ZeroMoney())
	require.NoError(t, err)

	now := time.Now().UTC()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       kernel.NewUUID(),
		PartnerID:       kernel.NewUUID(),
		ServiceType:     "regular",
		PaymentMethod:   method,
		Weight:          decimal.NewFromInt(5),
		Distance:        decimal.Zero,
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now.Add(time.Hour),
	}, pricing, nil, now)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func partnerOf(t *testing.T, o *order.Order) kernel.Actor {
	t.Helper()
	return mustActor(t, kernel.RolePartner, o.PartnerID())
}

func customerOf(t *testing.T, o *order.Order) kernel.Actor {
	t.Helper()
	return mustActor(t, kernel.RoleCustomer, o.CustomerID())
}

// moveTo advances o to target through the partner.
func moveTo(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()
	require.NoError(t, o.Transition(target, partnerOf(t, o), "", time.Now().UTC()))
}

func submittedPayment(t *testing.T, o *order.Order) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), o, "proofs/transfer.jpg", customerOf(t, o), time.Now().UTC())
	require.NoError(t, err)
	return p
}
