package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
)

// VerifyPaymentSignature checks the checkout callback signature. Razorpay signs
// "<order_id>|<payment_id>" with the key secret and hex-encodes the digest.
func (c *Client) VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	if gatewayOrderID == "" || gatewayPaymentID == "" || signature == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "payment signature fields are required")
	}
	payload := fmt.Sprintf("%s|%s", gatewayOrderID, gatewayPaymentID)
	if !verifyHMAC([]byte(payload), signature, []byte(c.keySecret)) {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "payment signature mismatch")
	}
	return nil
}

// VerifyWebhookSignature checks the webhook signature over the exact raw
// request body bytes. Re-serialized JSON will not verify.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	if len(body) == 0 || signature == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "webhook signature fields are required")
	}
	if !verifyHMAC(body, signature, []byte(c.webhookSecret)) {
		return pkgerrors.New(pkgerrors.CodeInvalidSignature, "webhook signature mismatch")
	}
	return nil
}

func verifyHMAC(payload []byte, signature string, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
