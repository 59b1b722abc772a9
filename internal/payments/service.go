package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/orders"
	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/metrics"
	"github.com/campusmart/campusmart-backend/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// gateway is the slice of the Razorpay wrapper the payment flows call.
type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.CheckoutOrder, error)
	VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error
	KeyID() string
	DefaultCurrency() string
}

// Service drives the order payment lifecycle against the gateway.
type Service interface {
	CreateCheckoutSession(ctx context.Context, orderID, requesterID uuid.UUID) (*CheckoutSessionDTO, error)
	Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResultDTO, error)
	ReconcileWebhook(ctx context.Context, event WebhookEvent) error
}

// ServiceParams groups dependencies for the payments service.
type ServiceParams struct {
	Repo     Repository
	Orders   orders.Repository
	Products *products.Repository
	Tx       txRunner
	Gateway  gateway
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
}

type service struct {
	repo     Repository
	orders   orders.Repository
	products *products.Repository
	tx       txRunner
	gateway  gateway
	logger   *logger.Logger
	metrics  *metrics.HTTPMetrics
}

// NewService builds a payments service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payments repository is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		orders:   params.Orders,
		products: params.Products,
		tx:       params.Tx,
		gateway:  params.Gateway,
		logger:   params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// CreateCheckoutSession opens a gateway order for the buyer and records the
// attempt. The transaction row commits only after the gateway returns, so a
// gateway failure leaves no local state behind.
func (s *service) CreateCheckoutSession(ctx context.Context, orderID, requesterID uuid.UUID) (*CheckoutSessionDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the buyer can pay for this order")
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "order is already paid")
	}

	checkout, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		AmountCents: int64(order.TotalAmountCents),
		Receipt:     order.ID.String(),
	})
	if err != nil {
		s.countEvent("checkout", "gateway_error")
		return nil, err
	}

	_, err = s.repo.Create(ctx, &models.PaymentTransaction{
		ID:             uuid.New(),
		OrderID:        order.ID,
		GatewayOrderID: checkout.GatewayOrderID,
		AmountCents:    order.TotalAmountCents,
		Status:         enums.TransactionStatusCreated,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment attempt")
	}

	ctx = s.logger.WithOrderID(ctx, order.ID.String())
	s.logger.Info(ctx, "checkout session opened")
	s.countEvent("checkout", "created")

	return &CheckoutSessionDTO{
		OrderID:        order.ID,
		GatewayOrderID: checkout.GatewayOrderID,
		GatewayKeyID:   s.gateway.KeyID(),
		AmountCents:    order.TotalAmountCents,
		Currency:       checkout.Currency,
	}, nil
}

// Confirm settles the buyer-side payment callback. The signature is checked
// before anything is written; an invalid one mutates nothing. A valid replay
// is a no-op that reports the current state.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*ConfirmResultDTO, error) {
	if err := s.gateway.VerifyPaymentSignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		s.countEvent("confirm", "bad_signature")
		return nil, err
	}

	txn, err := s.loadTransaction(ctx, input.GatewayOrderID)
	if err != nil {
		return nil, err
	}
	if txn.OrderID != input.OrderID {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "payment does not belong to this order")
	}

	var settled *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		settled, err = s.applyCapture(ctx, tx, txn, input.GatewayPaymentID, &input.Signature)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logger.WithOrderID(ctx, txn.OrderID.String())
	s.logger.Info(ctx, "payment confirmed")
	s.countEvent("confirm", "paid")

	return &ConfirmResultDTO{OrderID: txn.OrderID, PaymentStatus: settled.PaymentStatus}, nil
}

// ReconcileWebhook applies a gateway notification. Captured payments commute
// with Confirm through the same conditional updates; failed payments mark the
// attempt only and leave the order pending for a retry.
func (s *service) ReconcileWebhook(ctx context.Context, event WebhookEvent) error {
	switch event.Kind {
	case EventPaymentCaptured:
		txn, err := s.loadTransaction(ctx, event.GatewayOrderID)
		if err != nil {
			return err
		}
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			_, err := s.applyCapture(ctx, tx, txn, event.GatewayPaymentID, nil)
			return err
		})
		if err != nil {
			return err
		}
		s.countEvent("webhook", "paid")
		return nil

	case EventPaymentFailed:
		txn, err := s.loadTransaction(ctx, event.GatewayOrderID)
		if err != nil {
			return err
		}
		updates := map[string]any{}
		if event.GatewayPaymentID != "" {
			updates["gateway_payment_id"] = event.GatewayPaymentID
		}
		if _, err := s.repo.MarkStatusUnlessPaid(ctx, txn.ID, enums.TransactionStatusFailed, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment failed")
		}
		ctx = s.logger.WithOrderID(ctx, txn.OrderID.String())
		s.logger.Warn(ctx, "gateway reported payment failure")
		s.countEvent("webhook", "failed")
		return nil

	default:
		s.countEvent("webhook", "ignored")
		return nil
	}
}

// applyCapture is the single write path shared by Confirm and the webhook.
// Every update is conditional, so whichever path lands second does nothing.
func (s *service) applyCapture(ctx context.Context, tx *gorm.DB, txn *models.PaymentTransaction, gatewayPaymentID string, signature *string) (*models.Order, error) {
	updates := map[string]any{"gateway_payment_id": gatewayPaymentID}
	if signature != nil {
		updates["signature"] = *signature
	}
	if _, err := s.repo.WithTx(tx).MarkStatusUnlessPaid(ctx, txn.ID, enums.TransactionStatusPaid, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark payment paid")
	}

	if _, err := s.orders.WithTx(tx).MarkPaymentStatusIfPending(ctx, txn.OrderID, enums.PaymentStatusPaid); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order paid")
	}

	order, err := s.orders.WithTx(tx).FindByID(ctx, txn.OrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
	}
	if order.ProductID != nil {
		if _, err := s.products.WithTx(tx).UpdateStatusIf(ctx, *order.ProductID, enums.ProductStatusAvailable, enums.ProductStatusSold); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark product sold")
		}
	}
	return order, nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) loadTransaction(ctx context.Context, gatewayOrderID string) (*models.PaymentTransaction, error) {
	txn, err := s.repo.FindLatestByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment attempt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment attempt")
	}
	return txn, nil
}

func (s *service) countEvent(source, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncPaymentEvent(source, outcome)
}
