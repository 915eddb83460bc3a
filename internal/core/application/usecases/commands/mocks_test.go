package commands_test

import (
	"context"
	"time"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/listing"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/partner"
	"laundry/internal/core/domain/model/payment"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/core/domain/model/voucher"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) CountByCustomerAndVoucher(ctx context.Context, customerID, voucherID kernel.UUID) (int, error) {
	args := m.Called(ctx, customerID, voucherID)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) ListSettleableWithoutPayout(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Get(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*listing.Listing)
	return l, args.Error(1)
}

func (m *MockListingRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*listing.Listing)
	return l, args.Error(1)
}

func (m *MockListingRepository) UpdateRating(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) IncrementCompletedOrders(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockVoucherRepository struct{ mock.Mock }

func (m *MockVoucherRepository) Get(ctx context.Context, id kernel.UUID) (*voucher.Voucher, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*voucher.Voucher)
	return v, args.Error(1)
}

func (m *MockVoucherRepository) GetByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	args := m.Called(ctx, code)
	v, _ := args.Get(0).(*voucher.Voucher)
	return v, args.Error(1)
}

func (m *MockVoucherRepository) IncrementUsage(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFeeScheduleRepository struct{ mock.Mock }

func (m *MockFeeScheduleRepository) Get(ctx context.Context) (fee.Schedule, error) {
	args := m.Called(ctx)
	return args.Get(0).(fee.Schedule), args.Error(1)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*partner.Partner)
	return p, args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

func (m *MockPaymentRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(*payment.Payment)
	return p, args.Error(1)
}

type MockPayoutRepository struct{ mock.Mock }

func (m *MockPayoutRepository) Add(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Update(ctx context.Context, p *payout.Payout) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPayoutRepository) Get(ctx context.Context, id kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*payout.Payout)
	return p, args.Error(1)
}

func (m *MockPayoutRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*payout.Payout, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(*payout.Payout)
	return p, args.Error(1)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) Add(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Get(ctx context.Context, id kernel.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*review.Review)
	return r, args.Error(1)
}

func (m *MockReviewRepository) ApprovedRatings(ctx context.Context, listingID kernel.UUID) ([]int, error) {
	args := m.Called(ctx, listingID)
	ratings, _ := args.Get(0).([]int)
	return ratings, args.Error(1)
}

// MockUoW satisfies every unit of work interface of the package. The
// repository getters are plain fields so tests only script the transaction.
type MockUoW struct {
	mock.Mock

	Orders       *MockOrderRepository
	Listings     *MockListingRepository
	Vouchers     *MockVoucherRepository
	FeeSchedules *MockFeeScheduleRepository
	Partners     *MockPartnerRepository
	Payments     *MockPaymentRepository
	Payouts      *MockPayoutRepository
	Reviews      *MockReviewRepository
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		Orders:       new(MockOrderRepository),
		Listings:     new(MockListingRepository),
		Vouchers:     new(MockVoucherRepository),
		FeeSchedules: new(MockFeeScheduleRepository),
		Partners:     new(MockPartnerRepository),
		Payments:     new(MockPaymentRepository),
		Payouts:      new(MockPayoutRepository),
		Reviews:      new(MockReviewRepository),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository             { return m.Orders }
func (m *MockUoW) ListingRepository() ports.ListingRepository         { return m.Listings }
func (m *MockUoW) VoucherRepository() ports.VoucherRepository         { return m.Vouchers }
func (m *MockUoW) FeeScheduleRepository() ports.FeeScheduleRepository { return m.FeeSchedules }
func (m *MockUoW) PartnerRepository() ports.PartnerRepository         { return m.Partners }
func (m *MockUoW) PaymentRepository() ports.PaymentRepository         { return m.Payments }
func (m *MockUoW) PayoutRepository() ports.PayoutRepository           { return m.Payouts }
func (m *MockUoW) ReviewRepository() ports.ReviewRepository           { return m.Reviews }

// expectTx scripts a successful Begin, Commit and the deferred Rollback.
func (m *MockUoW) expectTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Commit", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

// expectAbort scripts Begin and the deferred Rollback without a commit.
func (m *MockUoW) expectAbort(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

func (m *MockUoW) assertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.Orders.AssertExpectations(t)
	m.Listings.AssertExpectations(t)
	m.Vouchers.AssertExpectations(t)
	m.FeeSchedules.AssertExpectations(t)
	m.Partners.AssertExpectations(t)
	m.Payments.AssertExpectations(t)
	m.Payouts.AssertExpectations(t)
	m.Reviews.AssertExpectations(t)
}

type MockOrderingUoWFactory struct{ mock.Mock }

func (m *MockOrderingUoWFactory) Create() commands.OrderingUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderingUoW)
}

type MockSettlementUoWFactory struct{ mock.Mock }

func (m *MockSettlementUoWFactory) Create() commands.SettlementUoW {
	args := m.Called()
	return args.Get(0).(commands.SettlementUoW)
}

type MockPayoutUoWFactory struct{ mock.Mock }

func (m *MockPayoutUoWFactory) Create() commands.PayoutUoW {
	args := m.Called()
	return args.Get(0).(commands.PayoutUoW)
}

type MockReviewUoWFactory struct{ mock.Mock }

func (m *MockReviewUoWFactory) Create() commands.ReviewUoW {
	args := m.Called()
	return args.Get(0).(commands.ReviewUoW)
}

type MockOutbox struct {
	mock.Mock

	Repo *MockOutboxRepository
}

// WithinTransaction runs fn against Repo and returns its error the way a
// rolled back transaction would.
func (m *MockOutbox) WithinTransaction(ctx context.Context, fn func(ports.OutboxRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Repo)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Unpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	messages, _ := args.Get(0).([]ports.OutboxMessage)
	return messages, args.Error(1)
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	args := m.Called(ctx, ids, at)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, messages []ports.OutboxMessage) error {
	args := m.Called(ctx, messages)
	return args.Error(0)
}
