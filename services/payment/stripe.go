package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// gatewayTimeout bounds every outbound call to Stripe so a stalled remote
// surfaces as ErrGatewayUnavailable instead of hanging the request.
const gatewayTimeout = 15 * time.Second

// StripeGateway implements Gateway against the Stripe API. The API key is
// set process-wide (stripe.Key) at startup; the webhook signing secret is
// injected here so tests can run with a known secret.
type StripeGateway struct {
	webhookSecret string
	logger        *zap.Logger
}

// NewStripeGateway constructs a StripeGateway.
func NewStripeGateway(webhookSecret string, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{webhookSecret: webhookSecret, logger: logger}
}

// CreateDepositIntent creates a payment intent sized to the deposit only.
func (g *StripeGateway) CreateDepositIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*DepositIntent, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("stripe: payment intent creation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	return &DepositIntent{IntentID: pi.ID, ClientToken: pi.ClientSecret}, nil
}

// VerifyAndParseEvent checks the Stripe-Signature header against the signing
// secret and only then inspects the payload. Unverified payloads are never
// parsed. API version skew between the account's webhook configuration and
// the pinned SDK version is tolerated: a correctly signed event must not be
// dropped just because the account upgraded its API version.
func (g *StripeGateway) VerifyAndParseEvent(payload []byte, sigHeader string) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			g.logger.Warn("stripe: malformed payment_intent.succeeded payload", zap.Error(err))
			return Event{Type: string(event.Type)}, nil
		}
		return Event{Type: EventDepositSucceeded, IntentID: pi.ID}, nil
	default:
		// Acknowledged but not acted on.
		return Event{Type: string(event.Type)}, nil
	}
}
