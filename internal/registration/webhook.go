package registration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// WebhookError carries enough context to answer the processor correctly: a
// safe public message plus the detailed one for logs.
type WebhookError struct {
	Category      string // "configuration", "validation", "processing"
	StatusCode    int
	PublicError   string
	InternalError string
	OriginalErr   error
}

func (e *WebhookError) Error() string {
	return e.InternalError
}

// HandleWebhook processes processor webhook events. It converges on the same
// confirmation path as the client's synchronous call, so whichever arrives
// first commits the registration and the other is a no-op.
func (s *Service) HandleWebhook(r *http.Request) error {
	if s.webhookSecret == "" {
		s.logger.Error("WEBHOOK", "webhook secret is not configured")
		return &WebhookError{
			Category:      "configuration",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Webhook processing error",
			InternalError: "webhook secret is not configured",
		}
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("WEBHOOK", fmt.Sprintf("failed to read webhook payload: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook payload",
			InternalError: fmt.Sprintf("failed to read webhook payload: %v", err),
			OriginalErr:   err,
		}
	}

	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}

	event, err := webhook.ConstructEventWithOptions(payload, r.Header.Get("Stripe-Signature"), s.webhookSecret, opts)
	if err != nil {
		s.logger.Error("WEBHOOK", fmt.Sprintf("signature verification failed: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Webhook signature verification failed",
			InternalError: fmt.Sprintf("signature verification failed: %v", err),
			OriginalErr:   err,
		}
	}

	s.logger.Info("WEBHOOK", fmt.Sprintf("processing webhook event: %s", event.Type))

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			s.logger.Error("WEBHOOK", fmt.Sprintf("failed to unmarshal payment intent: %v", err))
			return &WebhookError{
				Category:      "processing",
				StatusCode:    http.StatusBadRequest,
				PublicError:   "Invalid event data",
				InternalError: fmt.Sprintf("failed to unmarshal payment intent: %v", err),
				OriginalErr:   err,
			}
		}
		return s.processIntentEvent(r, intent, string(event.Type))

	default:
		s.logger.Info("WEBHOOK", fmt.Sprintf("unhandled event type: %s", event.Type))
	}

	return nil
}

func (s *Service) processIntentEvent(r *http.Request, intent stripe.PaymentIntent, eventType string) error {
	// Intents created by the orchestrator carry the registration in metadata;
	// the intent ref itself is the fallback lookup key.
	registrationID := intent.Metadata["registration_id"]

	// A payment_failed event IS the decline: the intent it carries sits in
	// requires_payment_method, which a status lookup cannot tell apart from a
	// checkout that has not been attempted yet. Cancel directly so the slot
	// frees now instead of at hold expiry.
	var err error
	if eventType == "payment_intent.payment_failed" {
		err = s.FailByIntent(r.Context(), intent.ID)
	} else {
		_, err = s.ConfirmByIntent(r.Context(), intent.ID)
	}
	switch {
	case err == nil:
		s.logger.Info("WEBHOOK", fmt.Sprintf(
			"processed %s for registration %s (intent %s)", eventType, registrationID, intent.ID))
		return nil

	case errors.Is(err, ErrPaymentDeclined):
		// The expected outcome of payment_intent.payment_failed: the
		// registration was cancelled and its slot released.
		s.logger.Info("WEBHOOK", fmt.Sprintf(
			"registration %s cancelled after payment failure (intent %s)", registrationID, intent.ID))
		return nil

	case errors.Is(err, ErrRegistrationNotFound):
		// Unknown or already-cancelled registration. Acknowledge so the
		// processor stops retrying; reconciliation picks it up from the
		// audit trail.
		s.logger.Warn("WEBHOOK", fmt.Sprintf(
			"no actionable registration for intent %s (%s)", intent.ID, eventType))
		return nil

	case errors.Is(err, ErrGatewayUnavailable):
		// Transient: let the processor retry the delivery.
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusServiceUnavailable,
			PublicError:   "Temporarily unable to process payment event",
			InternalError: fmt.Sprintf("gateway unavailable while processing intent %s: %v", intent.ID, err),
			OriginalErr:   err,
		}

	default:
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Failed to process payment event",
			InternalError: fmt.Sprintf("failed to process intent %s: %v", intent.ID, err),
			OriginalErr:   err,
		}
	}
}
