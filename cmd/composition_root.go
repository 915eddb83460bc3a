package cmd

import (
	"context"
	"errors"

	httpadapter "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/out/kafka"
	"laundry/internal/adapters/out/postgres"
	"laundry/internal/adapters/out/redis/feecache"
	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/services"
	"laundry/internal/jobs"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrKafkaIsNotConfigured = errors.New("kafka brokers are not configured")

type CompositionRoot struct {
	cfg        Config
	logger     *logrus.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	pricing    services.PricingEngine
	settlement services.SettlementEngine
	producer   sarama.SyncProducer
}

// NewCompositionRoot wires the domain services over gormDB. redisClient may be
// nil, in which case fee schedules are read from postgres on every request.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient redis.UniversalClient,
	logger *logrus.Logger,
) (*CompositionRoot, error) {
	pricing, err := services.NewPricingEngine(cfg.PlatformFeeRate, cfg.MaxWeightKg)
	if err != nil {
		return nil, err
	}

	opts := []postgres.Option{
		postgres.WithDefaultCODFee(kernel.MoneyFromInt(cfg.DefaultCODFee)),
	}
	if redisClient != nil {
		cache := feecache.New(redisClient, cfg.FeeCacheTTL, logger)
		opts = append(opts, postgres.WithFeeScheduleDecorator(cache.Decorate))
	}

	return &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, opts...),
		pricing:    pricing,
		settlement: services.NewSettlementEngine(),
	}, nil
}

func (c *CompositionRoot) componentLogger(name string) logrus.FieldLogger {
	return c.logger.WithField("component", name)
}

func (c *CompositionRoot) orderingUoWFactory() commands.OrderingUoWFactory {
	return FuncOrderingUoWFactory(func() commands.OrderingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settlementUoWFactory() commands.SettlementUoWFactory {
	return FuncSettlementUoWFactory(func() commands.SettlementUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) payoutUoWFactory() commands.PayoutUoWFactory {
	return FuncPayoutUoWFactory(func() commands.PayoutUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) reviewUoWFactory() commands.ReviewUoWFactory {
	return FuncReviewUoWFactory(func() commands.ReviewUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	h := commands.NewCreateOrderCommandHandler(c.orderingUoWFactory(), c.pricing, c.componentLogger("create_order"))
	return &h
}

func (c *CompositionRoot) CreateRepriceOrderCommandHandler() *commands.RepriceOrderCommandHandler {
	h := commands.NewRepriceOrderCommandHandler(c.orderingUoWFactory(), c.pricing, c.componentLogger("reprice_order"))
	return &h
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() *commands.TransitionOrderStatusCommandHandler {
	h := commands.NewTransitionOrderStatusCommandHandler(c.settlementUoWFactory(), c.settlement,
		c.componentLogger("transition_order_status"))
	return &h
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() *commands.ConfirmDeliveryCommandHandler {
	h := commands.NewConfirmDeliveryCommandHandler(c.settlementUoWFactory(), c.settlement,
		c.componentLogger("confirm_delivery"))
	return &h
}

func (c *CompositionRoot) CreateSettleOrderCommandHandler() *commands.SettleOrderCommandHandler {
	h := commands.NewSettleOrderCommandHandler(c.settlementUoWFactory(), c.settlement)
	return &h
}

func (c *CompositionRoot) CreateSubmitPaymentCommandHandler() *commands.SubmitPaymentCommandHandler {
	h := commands.NewSubmitPaymentCommandHandler(c.settlementUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() *commands.VerifyPaymentCommandHandler {
	h := commands.NewVerifyPaymentCommandHandler(c.settlementUoWFactory(), c.settlement,
		c.componentLogger("verify_payment"))
	return &h
}

func (c *CompositionRoot) CreateProcessPayoutTransferCommandHandler() *commands.ProcessPayoutTransferCommandHandler {
	h := commands.NewProcessPayoutTransferCommandHandler(c.payoutUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateSubmitReviewCommandHandler() *commands.SubmitReviewCommandHandler {
	h := commands.NewSubmitReviewCommandHandler(c.reviewUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateUpdateReviewCommandHandler() *commands.UpdateReviewCommandHandler {
	h := commands.NewUpdateReviewCommandHandler(c.reviewUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateModerateReviewCommandHandler() *commands.ModerateReviewCommandHandler {
	h := commands.NewModerateReviewCommandHandler(c.reviewUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateReconcileSettlementsCommandHandler() *commands.ReconcileSettlementsCommandHandler {
	h := commands.NewReconcileSettlementsCommandHandler(c.settlementUoWFactory(), c.settlement,
		c.componentLogger("reconcile_settlements"))
	return &h
}

// CreatePublishOutboxEventsCommandHandler connects to kafka on first use.
func (c *CompositionRoot) CreatePublishOutboxEventsCommandHandler() (*commands.PublishOutboxEventsCommandHandler, error) {
	if c.producer == nil {
		if len(c.cfg.KafkaBrokers) == 0 {
			return nil, ErrKafkaIsNotConfigured
		}
		producer, err := kafka.NewSyncProducer(c.cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		c.producer = producer
	}
	publisher := kafka.NewEventPublisher(c.producer, c.cfg.KafkaOrderEventsTopic)
	h := commands.NewPublishOutboxEventsCommandHandler(postgres.NewGormOutbox(c.gormDB), publisher)
	return &h, nil
}

func (c *CompositionRoot) CreateQuoteOrderPriceQueryHandler() queries.QuoteOrderPriceQueryHandler {
	return queries.NewQuoteOrderPriceQueryHandler(c.uowFactory, c.pricing)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPartnerEarningsQueryHandler() queries.GetPartnerEarningsQueryHandler {
	return queries.NewGetPartnerEarningsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the echo router with every API handler attached.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	doc, err := httpadapter.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	server := httpadapter.NewServer(httpadapter.Handlers{
		QuoteOrderPrice:    c.CreateQuoteOrderPriceQueryHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetPartnerEarnings: c.CreateGetPartnerEarningsQueryHandler(),

		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		TransitionOrderStatus: c.CreateTransitionOrderStatusCommandHandler(),
		ConfirmDelivery:       c.CreateConfirmDeliveryCommandHandler(),
		RepriceOrder:          c.CreateRepriceOrderCommandHandler(),
		SettleOrder:           c.CreateSettleOrderCommandHandler(),
		SubmitPayment:         c.CreateSubmitPaymentCommandHandler(),
		VerifyPayment:         c.CreateVerifyPaymentCommandHandler(),
		ProcessPayoutTransfer: c.CreateProcessPayoutTransferCommandHandler(),
		SubmitReview:          c.CreateSubmitReviewCommandHandler(),
		UpdateReview:          c.CreateUpdateReviewCommandHandler(),
		ModerateReview:        c.CreateModerateReviewCommandHandler(),
	})

	return httpadapter.NewRouter(server, doc, c.componentLogger("http"))
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	relay, err := c.CreatePublishOutboxEventsCommandHandler()
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(relay, c.CreateReconcileSettlementsCommandHandler(), jobs.Config{
		OutboxRelaySchedule:    c.cfg.OutboxRelaySchedule,
		OutboxBatchSize:        c.cfg.OutboxBatchSize,
		ReconciliationSchedule: c.cfg.ReconciliationSchedule,
		ReconcileBatchSize:     c.cfg.ReconcileBatchSize,
	}, c.logger), nil
}

// Close releases the kafka producer and the database pool.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.producer != nil {
		errs = append(errs, c.producer.Close())
	}
	if sqlDB, err := c.gormDB.DB(); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}

type FuncOrderingUoWFactory func() commands.OrderingUoW

func (f FuncOrderingUoWFactory) Create() commands.OrderingUoW {
	return f()
}

type FuncSettlementUoWFactory func() commands.SettlementUoW

func (f FuncSettlementUoWFactory) Create() commands.SettlementUoW {
	return f()
}

type FuncPayoutUoWFactory func() commands.PayoutUoW

func (f FuncPayoutUoWFactory) Create() commands.PayoutUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}
