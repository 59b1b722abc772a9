package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/api/middleware"
	paymentsvc "github.com/campusmart/campusmart-backend/internal/payments"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
)

type stubPaymentService struct {
	session *paymentsvc.CheckoutSessionDTO
	result  *paymentsvc.ConfirmResultDTO
}

func (s *stubPaymentService) CreateCheckoutSession(_ context.Context, _, _ uuid.UUID) (*paymentsvc.CheckoutSessionDTO, error) {
	return s.session, nil
}

func (s *stubPaymentService) Confirm(_ context.Context, _ paymentsvc.ConfirmInput) (*paymentsvc.ConfirmResultDTO, error) {
	return s.result, nil
}

func (s *stubPaymentService) ReconcileWebhook(_ context.Context, _ paymentsvc.WebhookEvent) error {
	return nil
}

func TestPaymentCreateOrder(t *testing.T) {
	orderID := uuid.New()
	stub := &stubPaymentService{session: &paymentsvc.CheckoutSessionDTO{
		OrderID:        orderID,
		GatewayOrderID: "order_abc123",
		AmountCents:    500,
		Currency:       "INR",
	}}

	t.Run("missing user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-order", strings.NewReader(`{"order_id":"`+orderID.String()+`"}`))
		rec := httptest.NewRecorder()
		PaymentCreateOrder(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user context, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/create-order", strings.NewReader(`{"order_id":"`+orderID.String()+`"}`))
		req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: uuid.New()}))
		rec := httptest.NewRecorder()
		PaymentCreateOrder(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for checkout session, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "order_abc123") {
			t.Fatalf("expected session payload, got %s", rec.Body.String())
		}
	})
}

func TestPaymentVerify(t *testing.T) {
	orderID := uuid.New()
	stub := &stubPaymentService{result: &paymentsvc.ConfirmResultDTO{
		OrderID:       orderID,
		PaymentStatus: enums.PaymentStatusPaid,
	}}

	body := `{"order_id":"` + orderID.String() + `","gateway_order_id":"order_abc123","gateway_payment_id":"pay_1","signature":"sig"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/verify", strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: uuid.New()}))
	rec := httptest.NewRecorder()
	PaymentVerify(stub, testLogger()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), string(enums.PaymentStatusPaid)) {
		t.Fatalf("expected payment status in payload, got %s", rec.Body.String())
	}
}
