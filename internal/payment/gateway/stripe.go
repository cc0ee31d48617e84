package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-registration/internal/logger"
	"ms-registration/internal/models"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	client      *client.API
	log         *logger.Logger
	callTimeout time.Duration
	maxRetries  int
}

type StripeConfig struct {
	SecretKey   string
	CallTimeout time.Duration
	MaxRetries  int
}

func NewStripeGateway(cfg StripeConfig, log *logger.Logger) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY is not set")
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(cfg.SecretKey, nil)

	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	log.Info("STRIPE", "Stripe client initialized")
	return &StripeGateway{
		client:      sc,
		log:         log,
		callTimeout: cfg.CallTimeout,
		maxRetries:  cfg.MaxRetries,
	}, nil
}

// CreateIntent creates a payment intent for exactly the given amount. The
// idempotency key makes the call safe to retry after a transport failure:
// Stripe returns the previously created intent instead of a second charge.
func (g *StripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.AmountCents),
		Currency: stripe.String(p.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	var intent *stripe.PaymentIntent
	err := g.withRetry(ctx, "CreateIntent", func(callCtx context.Context) error {
		params.Context = callCtx
		pi, err := g.client.PaymentIntents.New(params)
		if err != nil {
			return err
		}
		intent = pi
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.log.Info("STRIPE", fmt.Sprintf("Created payment intent %s for %d %s",
		intent.ID, p.AmountCents, p.Currency))

	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       translateIntent(intent),
	}, nil
}

// GetIntent fetches an intent with its client secret. Used to resume a
// checkout the client abandoned mid-flight without creating a second intent.
func (g *StripeGateway) GetIntent(ctx context.Context, intentRef string) (*Intent, error) {
	var intent *Intent
	err := g.withRetry(ctx, "GetIntent", func(callCtx context.Context) error {
		pi, err := g.client.PaymentIntents.Get(intentRef, &stripe.PaymentIntentParams{
			Params: stripe.Params{Context: callCtx},
		})
		if err != nil {
			return err
		}
		intent = &Intent{
			ID:           pi.ID,
			ClientSecret: pi.ClientSecret,
			Status:       translateIntent(pi),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// GetStatus fetches the current status of an intent.
func (g *StripeGateway) GetStatus(ctx context.Context, intentRef string) (models.IntentStatus, error) {
	intent, err := g.GetIntent(ctx, intentRef)
	if err != nil {
		return "", err
	}
	return intent.Status, nil
}

// withRetry runs one Stripe call under the configured timeout, retrying
// transport-level failures with exponential backoff. Definitive answers from
// Stripe (card errors, invalid requests) are never retried.
func (g *StripeGateway) withRetry(ctx context.Context, op string, call func(context.Context) error) error {
	backoff := 200 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		err := call(callCtx)
		cancel()

		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			g.log.Error("STRIPE", fmt.Sprintf("%s failed: %v", op, err))
			return fmt.Errorf("%w: %v", ErrRejected, err)
		}

		g.log.Warn("STRIPE", fmt.Sprintf("%s attempt %d failed (transient): %v", op, attempt+1, err))

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func isTransient(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.Type == stripe.ErrorTypeAPI ||
			stripeErr.HTTPStatusCode >= 500
	}
	// Non-stripe errors are transport failures (timeouts, DNS, reset conns).
	return true
}

func translateIntent(pi *stripe.PaymentIntent) models.IntentStatus {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.IntentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return models.IntentFailed
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// A declined charge drops the intent back to requires_payment_method
		// with the decline recorded on last_payment_error. Without it the
		// intent is simply new and unpaid.
		if pi.LastPaymentError != nil {
			return models.IntentFailed
		}
		return models.IntentPending
	default:
		// requires_confirmation, requires_action, processing, requires_capture
		return models.IntentPending
	}
}
