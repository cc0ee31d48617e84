package gateway

import (
	"errors"
	"testing"

	"ms-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v82"
)

func TestIsTransient(t *testing.T) {
	// Definitive answers from the processor are never retried.
	assert.False(t, isTransient(&stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: 402}))
	assert.False(t, isTransient(&stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: 400}))
	assert.False(t, isTransient(&stripe.Error{Type: stripe.ErrorTypeIdempotency, HTTPStatusCode: 400}))

	// Server-side failures and transport errors are.
	assert.True(t, isTransient(&stripe.Error{Type: stripe.ErrorTypeAPI, HTTPStatusCode: 500}))
	assert.True(t, isTransient(&stripe.Error{HTTPStatusCode: 503}))
	assert.True(t, isTransient(errors.New("read tcp: connection reset by peer")))
}

func TestTranslateIntent(t *testing.T) {
	assert.Equal(t, models.IntentSucceeded, translateIntent(&stripe.PaymentIntent{
		Status: stripe.PaymentIntentStatusSucceeded,
	}))
	assert.Equal(t, models.IntentFailed, translateIntent(&stripe.PaymentIntent{
		Status: stripe.PaymentIntentStatusCanceled,
	}))
	assert.Equal(t, models.IntentPending, translateIntent(&stripe.PaymentIntent{
		Status: stripe.PaymentIntentStatusProcessing,
	}))
}

func TestTranslateIntent_DeclinedChargeIsFailed(t *testing.T) {
	// A decline parks the intent in requires_payment_method with the error
	// attached; without the error that status just means "not paid yet".
	declined := &stripe.PaymentIntent{
		Status:           stripe.PaymentIntentStatusRequiresPaymentMethod,
		LastPaymentError: &stripe.Error{Code: stripe.ErrorCodeCardDeclined},
	}
	assert.Equal(t, models.IntentFailed, translateIntent(declined))

	fresh := &stripe.PaymentIntent{Status: stripe.PaymentIntentStatusRequiresPaymentMethod}
	assert.Equal(t, models.IntentPending, translateIntent(fresh))
}
