package payment

import (
	"context"
	"errors"
)

// Sentinel errors of the payment boundary.
var (
	// ErrGatewayUnavailable wraps any remote failure talking to the payment
	// provider, including timeouts.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidAmount rejects non-positive intent amounts before any call
	// leaves the process.
	ErrInvalidAmount = errors.New("payment amount must be positive")
	// ErrInvalidSignature rejects webhook payloads whose signature does not
	// verify against the shared signing secret.
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// DepositIntent is the gateway's handle for an authorized-but-unsettled
// deposit charge. ClientToken is handed to the frontend to finalize payment.
type DepositIntent struct {
	IntentID    string
	ClientToken string
}

// EventDepositSucceeded is the only webhook event type the engine acts on.
// Everything else is acknowledged and ignored for forward compatibility.
const EventDepositSucceeded = "deposit_succeeded"

// Event is a verified, parsed webhook notification.
type Event struct {
	Type     string
	IntentID string
}

// Gateway wraps the external payment processor. Implementations must verify
// webhook authenticity before parsing any business content.
type Gateway interface {
	CreateDepositIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*DepositIntent, error)
	VerifyAndParseEvent(payload []byte, sigHeader string) (Event, error)
}
