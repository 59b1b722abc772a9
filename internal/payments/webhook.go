package payments

import (
	"encoding/json"

	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
)

// Webhook event kinds the reconciler acts on. Anything else is acknowledged
// and dropped.
const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// WebhookEvent is the decoded payload of a gateway notification.
type WebhookEvent struct {
	Kind             string
	GatewayOrderID   string
	GatewayPaymentID string
}

type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhookEvent decodes a gateway webhook body. Signature verification
// happens on the raw bytes before this runs.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed webhook payload")
	}
	if envelope.Event == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "webhook payload missing event")
	}
	return &WebhookEvent{
		Kind:             envelope.Event,
		GatewayOrderID:   envelope.Payload.Payment.Entity.OrderID,
		GatewayPaymentID: envelope.Payload.Payment.Entity.ID,
	}, nil
}
