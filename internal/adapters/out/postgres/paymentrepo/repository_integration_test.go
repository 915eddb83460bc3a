package paymentrepo_test

import (
	"context"
	"testing"
	"time"

	"laundry/internal/adapters/out/postgres/paymentrepo"
	"laundry/internal/adapters/out/postgres/pgtest"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type PaymentRepositoryIntegrationTestSuite struct {
	suite.Suite
	database   *pgtest.Database
	repository *paymentrepo.GormPaymentRepository
}

func (suite *PaymentRepositoryIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.repository = paymentrepo.NewGormPaymentRepository(database.DB, noopTracker{})
}

func (suite *PaymentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *PaymentRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *PaymentRepositoryIntegrationTestSuite) newOrder() (*order.Order, kernel.Actor) {
	pricing, err := order.NewPricing(kernel.MoneyFromInt(50000), kernel.ZeroMoney(),
		kernel.MoneyFromInt(1500), kernel.ZeroMoney())
	suite.Require().NoError(err)

	now := time.Now().UTC()
	o, err := order.NewOrder(kernel.NewUUID(), order.Details{
		CustomerID:      kernel.NewUUID(),
		ListingID:       kernel.NewUUID(),
		PartnerID:       kernel.NewUUID(),
		ServiceType:     "regular",
		PaymentMethod:   order.PaymentBCA,
		Weight:          decimal.NewFromInt(5),
		PickupAddress:   "Jl. Darmo 1",
		DeliveryAddress: "Jl. Darmo 1",
		PickupTime:      now,
	}, pricing, nil, now)
	suite.Require().NoError(err)

	customer, err := kernel.NewActor(kernel.RoleCustomer, o.CustomerID())
	suite.Require().NoError(err)
	return o, customer
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestAdd_ThenGetByOrder() {
	ctx := context.Background()
	o, customer := suite.newOrder()
	p, err := payment.NewPayment(kernel.NewUUID(), o, "proofs/1.jpg", customer, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, p))

	got, err := suite.repository.GetByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(got.ID().IsEqual(p.ID()))
	suite.Equal(order.PaymentBCA, got.Method())
	suite.Equal("51500.00", got.Amount().String())
	suite.Equal(payment.StatusPending, got.Status())
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestAdd_SecondPaymentForOrder_ReturnsConcurrentModification() {
	ctx := context.Background()
	o, customer := suite.newOrder()
	first, err := payment.NewPayment(kernel.NewUUID(), o, "proofs/1.jpg", customer, time.Now().UTC())
	suite.Require().NoError(err)
	second, err := payment.NewPayment(kernel.NewUUID(), o, "proofs/2.jpg", customer, time.Now().UTC())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, first))
	err = suite.repository.Add(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
}

func (suite *PaymentRepositoryIntegrationTestSuite) TestUpdate_OnlyOneDecisionWins() {
	ctx := context.Background()
	o, customer := suite.newOrder()
	p, err := payment.NewPayment(kernel.NewUUID(), o, "proofs/1.jpg", customer, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	admin, err := kernel.NewActor(kernel.RoleAdmin, kernel.NewUUID())
	suite.Require().NoError(err)
	verifying, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	rejecting, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(verifying.Verify(admin, "ok", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, verifying))
	suite.Require().NoError(rejecting.Reject(admin, "blurry", time.Now().UTC()))
	err = suite.repository.Update(ctx, rejecting)

	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
	got, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.True(got.IsVerified())
	suite.Equal("ok", got.AdminNotes())
	suite.Require().NotNil(got.VerifiedBy())
	suite.True(got.VerifiedBy().IsEqual(admin.ID()))
}

func TestPaymentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepositoryIntegrationTestSuite))
}
