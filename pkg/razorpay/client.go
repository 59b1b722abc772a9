package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	rzpsdk "github.com/razorpay/razorpay-go"

	"github.com/campusmart/campusmart-backend/pkg/config"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/logger"
)

var (
	errKeyIDRequired         = errors.New("razorpay key id is required")
	errKeySecretRequired     = errors.New("razorpay key secret is required")
	errWebhookSecretRequired = errors.New("razorpay webhook secret is required")
	errLoggerRequired        = errors.New("razorpay logger is required")
)

// orderAPI is the slice of the SDK surface the wrapper calls.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client exposes Razorpay primitives with centralized auth, logging, and error mapping.
type Client struct {
	orders        orderAPI
	keyID         string
	keySecret     string
	webhookSecret string
	currency      string
	logger        *logger.Logger
}

// OrderCreateParams describes a checkout order to open on the gateway.
type OrderCreateParams struct {
	AmountCents int64
	Currency    string
	Receipt     string
}

// CheckoutOrder is the gateway-side order a client completes payment against.
type CheckoutOrder struct {
	GatewayOrderID string
	AmountCents    int64
	Currency       string
	Receipt        string
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}
	webhookSecret := strings.TrimSpace(cfg.WebhookSecret)
	if webhookSecret == "" {
		return nil, errWebhookSecretRequired
	}

	sdk := rzpsdk.NewClient(keyID, keySecret)
	if cfg.Timeout > 0 {
		sdk.SetTimeout(int16(cfg.Timeout.Seconds()))
	}

	c := &Client{
		orders:        sdk.Order,
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		currency:      cfg.Currency,
		logger:        logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the public key clients need to open the checkout widget.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// DefaultCurrency reports the configured settlement currency.
func (c *Client) DefaultCurrency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder opens a gateway order for the given amount in minor units.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*CheckoutOrder, error) {
	if params.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "checkout amount must be positive")
	}
	currency := params.Currency
	if currency == "" {
		currency = c.currency
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount_cents": params.AmountCents,
		"currency":     currency,
		"receipt":      params.Receipt,
	})

	data := map[string]interface{}{
		"amount":   params.AmountCents,
		"currency": currency,
		"receipt":  params.Receipt,
	}
	resp, err := c.orders.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "razorpay create order failed")
	}

	order, err := checkoutOrderFromResponse(resp)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeGateway, err, "razorpay create order returned malformed response")
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"gateway_order_id": order.GatewayOrderID,
		"amount_cents":     order.AmountCents,
		"currency":         order.Currency,
	})
	return order, nil
}

func checkoutOrderFromResponse(resp map[string]interface{}) (*CheckoutOrder, error) {
	id, ok := resp["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("response missing order id")
	}
	amount, err := amountFromResponse(resp["amount"])
	if err != nil {
		return nil, err
	}
	currency, _ := resp["currency"].(string)
	receipt, _ := resp["receipt"].(string)
	return &CheckoutOrder{
		GatewayOrderID: id,
		AmountCents:    amount,
		Currency:       currency,
		Receipt:        receipt,
	}, nil
}

// The SDK decodes JSON numbers as float64. Order amounts fit well inside the
// float64 integer range so the conversion is exact.
func amountFromResponse(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("response has unexpected amount type %T", raw)
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}
