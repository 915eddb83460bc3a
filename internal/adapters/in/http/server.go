package http

import (
	"context"
	"net/http"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/application/usecases/queries"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/payout"
	"laundry/internal/core/domain/model/review"
	"laundry/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	QuoteOrderPriceHandler interface {
		Handle(ctx context.Context, query queries.QuoteOrderPriceQuery) (queries.QuoteOrderPriceQueryResponse, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetPartnerEarningsHandler interface {
		Handle(ctx context.Context, query queries.GetPartnerEarningsQuery) (queries.GetPartnerEarningsQueryResponse, error)
	}
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	TransitionOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) error
	}
	ConfirmDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmDeliveryCommand) error
	}
	RepriceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.RepriceOrderCommand) error
	}
	SettleOrderHandler interface {
		Handle(ctx context.Context, cmd commands.SettleOrderCommand) (*payout.Payout, error)
	}
	SubmitPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.SubmitPaymentCommand) error
	}
	VerifyPaymentHandler interface {
		Handle(ctx context.Context, cmd commands.VerifyPaymentCommand) error
	}
	ProcessPayoutTransferHandler interface {
		Handle(ctx context.Context, cmd commands.ProcessPayoutTransferCommand) error
	}
	SubmitReviewHandler interface {
		Handle(ctx context.Context, cmd commands.SubmitReviewCommand) error
	}
	UpdateReviewHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateReviewCommand) error
	}
	ModerateReviewHandler interface {
		Handle(ctx context.Context, cmd commands.ModerateReviewCommand) error
	}
)

// Handlers groups the use cases the server exposes.
type Handlers struct {
	// Queries
	QuoteOrderPrice    QuoteOrderPriceHandler
	GetOrder           GetOrderHandler
	GetPartnerEarnings GetPartnerEarningsHandler

	// Commands
	CreateOrder           CreateOrderHandler
	TransitionOrderStatus TransitionOrderStatusHandler
	ConfirmDelivery       ConfirmDeliveryHandler
	RepriceOrder          RepriceOrderHandler
	SettleOrder           SettleOrderHandler
	SubmitPayment         SubmitPaymentHandler
	VerifyPayment         VerifyPaymentHandler
	ProcessPayoutTransfer ProcessPayoutTransferHandler
	SubmitReview          SubmitReviewHandler
	UpdateReview          UpdateReviewHandler
	ModerateReview        ModerateReviewHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h Handlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// RegisterHandlers mounts every operation under g.
func (s *Server) RegisterHandlers(g *echo.Group) {
	g.POST("/quotes", s.QuoteOrderPrice)
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/:orderId", s.GetOrder)
	g.POST("/orders/:orderId/status", s.TransitionOrderStatus)
	g.POST("/orders/:orderId/delivery-confirmation", s.ConfirmDelivery)
	g.POST("/orders/:orderId/reprice", s.RepriceOrder)
	g.POST("/orders/:orderId/settlement", s.SettleOrder)
	g.POST("/orders/:orderId/payments", s.SubmitPayment)
	g.POST("/orders/:orderId/reviews", s.SubmitReview)
	g.POST("/payments/:paymentId/verification", s.VerifyPayment)
	g.POST("/payouts/:payoutId/transfer", s.ProcessPayoutTransfer)
	g.PUT("/reviews/:reviewId", s.UpdateReview)
	g.POST("/reviews/:reviewId/moderation", s.ModerateReview)
	g.GET("/partners/:partnerId/earnings", s.GetPartnerEarnings)
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

// pathUUID binds a uuid path parameter the way generated servers do.
func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}

func bodyUUID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	parsed, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return parsed, nil
}

// QuoteOrderPrice handles POST /api/v1/quotes. A customer actor, when present,
// has its past voucher redemptions counted.
func (s *Server) QuoteOrderPrice(c echo.Context) error {
	var req QuoteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	listingID, err := bodyUUID("listingId", req.ListingID)
	if err != nil {
		return err
	}
	input := queries.QuoteInput{
		ListingID:   listingID,
		Weight:      req.Weight,
		Distance:    req.Distance,
		VoucherCode: req.VoucherCode,
	}
	if req.Pickup != nil {
		pickup, pointErr := req.Pickup.coordinates()
		if pointErr != nil {
			return pointErr
		}
		input.Pickup = &pickup
	}
	if actor, actorErr := actorOf(c); actorErr == nil && actor.Role() == kernel.RoleCustomer {
		id := actor.ID()
		input.CustomerID = &id
	}

	query, err := queries.NewQuoteOrderPriceQuery(input)
	if err != nil {
		return err
	}
	quote, err := s.h.QuoteOrderPrice.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Quote{
		Distance:       quote.Distance.String(),
		Pricing:        pricingOf(quote.Pricing),
		VoucherApplied: quote.VoucherApplied,
		VoucherMessage: quote.VoucherMessage,
	})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req NewOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	listingID, err := bodyUUID("listingId", req.ListingID)
	if err != nil {
		return err
	}
	method, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return err
	}
	pickup, err := req.Pickup.coordinates()
	if err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, actor, commands.OrderDraft{
		ListingID:       listingID,
		ServiceType:     req.ServiceType,
		PaymentMethod:   method,
		Weight:          req.Weight,
		Pickup:          pickup,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		PickupTime:      req.PickupTime,
		Notes:           req.Notes,
		VoucherCode:     req.VoucherCode,
	})
	if err != nil {
		return err
	}
	if err = s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+orderID.String())
	return c.JSON(http.StatusCreated, Created{ID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, actor)
	if err != nil {
		return err
	}
	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderOf(resp))
}

// TransitionOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) TransitionOrderStatus(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req StatusChangeRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, target, actor, req.Note)
	if err != nil {
		return err
	}
	if err = s.h.TransitionOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmDelivery handles POST /api/v1/orders/{orderId}/delivery-confirmation.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req NoteRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, actor, req.Note)
	if err != nil {
		return err
	}
	if err = s.h.ConfirmDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RepriceOrder handles POST /api/v1/orders/{orderId}/reprice.
func (s *Server) RepriceOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req RepriceRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRepriceOrderCommand(orderID, actor, req.Weight, req.Distance)
	if err != nil {
		return err
	}
	if err = s.h.RepriceOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SettleOrder handles POST /api/v1/orders/{orderId}/settlement.
func (s *Server) SettleOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req SettlementRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	var paymentID *kernel.UUID
	if req.PaymentID != nil {
		id, idErr := bodyUUID("paymentId", *req.PaymentID)
		if idErr != nil {
			return idErr
		}
		paymentID = &id
	}
	cmd, err := commands.NewSettleOrderCommand(orderID, paymentID, actor)
	if err != nil {
		return err
	}
	created, err := s.h.SettleOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, payoutOf(created))
}

// SubmitPayment handles POST /api/v1/orders/{orderId}/payments.
func (s *Server) SubmitPayment(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req PaymentProofRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewSubmitPaymentCommand(kernel.NewUUID(), orderID, actor, req.ProofRef)
	if err != nil {
		return err
	}
	if err = s.h.SubmitPayment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}

// VerifyPayment handles POST /api/v1/payments/{paymentId}/verification.
func (s *Server) VerifyPayment(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	paymentID, err := pathUUID(c, "paymentId")
	if err != nil {
		return err
	}
	var req DecisionRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewVerifyPaymentCommand(paymentID, actor, req.Approved, req.Notes)
	if err != nil {
		return err
	}
	if err = s.h.VerifyPayment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ProcessPayoutTransfer handles POST /api/v1/payouts/{payoutId}/transfer.
func (s *Server) ProcessPayoutTransfer(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	payoutID, err := pathUUID(c, "payoutId")
	if err != nil {
		return err
	}
	var req TransferRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	action, err := commands.ParseTransferAction(req.Action)
	if err != nil {
		return err
	}
	cmd, err := commands.NewProcessPayoutTransferCommand(payoutID, actor, action, req.TransferRef, req.Notes)
	if err != nil {
		return err
	}
	if err = s.h.ProcessPayoutTransfer.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func scoresOf(req ReviewRequest) review.Scores {
	return review.Scores{
		Rating:         req.Rating,
		ServiceQuality: req.ServiceQuality,
		Cleanliness:    req.Cleanliness,
		Speed:          req.Speed,
	}
}

// SubmitReview handles POST /api/v1/orders/{orderId}/reviews.
func (s *Server) SubmitReview(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	reviewID := kernel.NewUUID()
	cmd, err := commands.NewSubmitReviewCommand(reviewID, orderID, actor, scoresOf(req), req.Comment)
	if err != nil {
		return err
	}
	if err = s.h.SubmitReview.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: reviewID.String()})
}

// UpdateReview handles PUT /api/v1/reviews/{reviewId}.
func (s *Server) UpdateReview(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	reviewID, err := pathUUID(c, "reviewId")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateReviewCommand(reviewID, actor, scoresOf(req), req.Comment)
	if err != nil {
		return err
	}
	if err = s.h.UpdateReview.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ModerateReview handles POST /api/v1/reviews/{reviewId}/moderation.
func (s *Server) ModerateReview(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	reviewID, err := pathUUID(c, "reviewId")
	if err != nil {
		return err
	}
	var req DecisionRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewModerateReviewCommand(reviewID, actor, req.Approved)
	if err != nil {
		return err
	}
	if err = s.h.ModerateReview.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetPartnerEarnings handles GET /api/v1/partners/{partnerId}/earnings.
func (s *Server) GetPartnerEarnings(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	partnerID, err := pathUUID(c, "partnerId")
	if err != nil {
		return err
	}

	query, err := queries.NewGetPartnerEarningsQuery(partnerID, actor)
	if err != nil {
		return err
	}
	resp, err := s.h.GetPartnerEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, earningsOf(resp))
}
