// Package gateway is the façade over the external card processor. It holds
// no registration knowledge: it creates intents and reports their status, and
// the orchestrator owns everything else.
package gateway

import (
	"context"
	"errors"

	"ms-registration/internal/models"
)

var (
	// ErrUnavailable: the processor timed out or the transport failed. Safe
	// to retry.
	ErrUnavailable = errors.New("payment processor unavailable")

	// ErrRejected: the processor understood the request and said no (bad
	// amount, bad currency, blocked account). Not retryable as-is.
	ErrRejected = errors.New("payment processor rejected the request")
)

// Intent is the processor's handle for a not-yet-completed charge.
type Intent struct {
	ID           string
	ClientSecret string
	Status       models.IntentStatus
}

// CreateIntentParams describes the charge to set up. IdempotencyKey makes a
// retried network call safe: the processor deduplicates on it.
type CreateIntentParams struct {
	AmountCents    int64
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

// Gateway is what the orchestrator programs against. The Stripe
// implementation lives in stripe.go; tests use a fake.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	GetIntent(ctx context.Context, intentRef string) (*Intent, error)
	GetStatus(ctx context.Context, intentRef string) (models.IntentStatus, error)
}
