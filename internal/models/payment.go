package models

import (
	"time"
)

// IntentStatus is the gateway-side view of a payment intent, reduced to the
// three states the orchestrator cares about.
type IntentStatus string

const (
	IntentSucceeded IntentStatus = "succeeded"
	IntentPending   IntentStatus = "pending"
	IntentFailed    IntentStatus = "failed"
)

// PaymentIntentRecord is the audit row written for every intent this service
// creates and for every status transition it observes. Reconciliation jobs
// read it; nothing in the registration path ever depends on it.
type PaymentIntentRecord struct {
	IntentID       string       `json:"intent_id"`
	RegistrationID string       `json:"registration_id"`
	EventID        string       `json:"event_id"`
	AmountCents    int64        `json:"amount_cents"`
	Currency       string       `json:"currency"`
	Status         IntentStatus `json:"status"`
	CreatedDate    time.Time    `json:"created_date"`
	UpdatedDate    time.Time    `json:"updated_date,omitempty"`
}

// CreateIntentRequest is the body of POST /events/{eventId}/create-payment-intent.
// Amount is advisory only: the charge amount is always recomputed from the
// event's canonical price on the server.
type CreateIntentRequest struct {
	Amount    int64  `json:"amount,omitempty"`
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	UserID    string `json:"userId,omitempty"`
}

// CreateIntentResponse carries the client secret the browser-side processor
// SDK needs to complete the charge.
type CreateIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
	AmountCents     int64  `json:"amountCents"`
}
