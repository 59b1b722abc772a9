package webhooks

import (
	"context"
	"io"
	"net/http"

	"github.com/campusmart/campusmart-backend/api/responses"
	paymentsvc "github.com/campusmart/campusmart-backend/internal/payments"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/types"
)

const (
	signatureHeader = "X-Razorpay-Signature"
	eventIDHeader   = "X-Razorpay-Event-Id"
)

// webhookVerifier checks the delivery signature over the exact raw bytes.
type webhookVerifier interface {
	VerifyWebhookSignature(body []byte, signature string) error
}

type webhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// RazorpayWebhook reconciles gateway payment notifications. The signature is
// verified before the body is parsed; replayed deliveries short-circuit on
// the redis guard.
func RazorpayWebhook(svc paymentsvc.Service, verifier webhookVerifier, guard webhookGuard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil || verifier == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "webhook handler unavailable"))
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request body"))
			return
		}

		signature := r.Header.Get(signatureHeader)
		if signature == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidSignature, "webhook signature missing"))
			return
		}
		if err := verifier.VerifyWebhookSignature(payload, signature); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := paymentsvc.ParseWebhookEvent(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		eventID := r.Header.Get(eventIDHeader)
		if guard != nil && eventID != "" {
			alreadyProcessed, err := guard.CheckAndMark(ctx, eventID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			}
			if alreadyProcessed {
				responses.WriteSuccess(w, types.WebhookAck{Received: true})
				return
			}
		}

		if err := svc.ReconcileWebhook(ctx, *event); err != nil {
			if guard != nil && eventID != "" {
				_ = guard.Delete(ctx, eventID)
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.WebhookAck{Received: true})
	}
}
