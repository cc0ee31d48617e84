package models

import (
	"time"

	"github.com/uptrace/bun"
)

type RegistrationStatus string

const (
	// RegistrationReserved is the transient pre-payment state. A reserved
	// registration holds a capacity slot but is not yet visible as "you are
	// registered".
	RegistrationReserved RegistrationStatus = "reserved"
	// RegistrationConfirmed is terminal. Only confirmed registrations count
	// toward confirmed capacity and carry a ticket.
	RegistrationConfirmed RegistrationStatus = "confirmed"
	// RegistrationCancelled is terminal. Cancelled rows are kept for audit
	// and never block a later attempt by the same identity.
	RegistrationCancelled RegistrationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentPending     PaymentStatus = "pending"
	PaymentCompleted   PaymentStatus = "completed"
	PaymentFailed      PaymentStatus = "failed"
)

// Registration is the central entity: one row per (event, identity) attempt.
// The natural key (event_id, identity_id) is unique among non-cancelled rows.
type Registration struct {
	bun.BaseModel `bun:"table:registrations"`

	ID         string `bun:"id,pk" json:"id"`
	EventID    string `bun:"event_id,notnull" json:"event_id"`
	IdentityID string `bun:"identity_id,notnull" json:"identity_id"`

	AttendeeName   string `bun:"attendee_name,notnull" json:"attendee_name"`
	AttendeeEmail  string `bun:"attendee_email,notnull" json:"attendee_email"`
	AttendeePhone  string `bun:"attendee_phone,nullzero" json:"attendee_phone,omitempty"`
	SpecialRequest string `bun:"special_request,nullzero" json:"special_request,omitempty"`

	AmountCents     int64         `bun:"amount_cents,notnull" json:"amount_cents"`
	PaymentStatus   PaymentStatus `bun:"payment_status,notnull" json:"payment_status"`
	PaymentIntentID string        `bun:"payment_intent_id,nullzero" json:"payment_intent_id,omitempty"`

	TicketNumber string             `bun:"ticket_number,nullzero" json:"ticket_number,omitempty"`
	Status       RegistrationStatus `bun:"status,notnull" json:"status"`

	// Version guards per-record state transitions (compare-and-swap).
	Version int `bun:"version,notnull" json:"-"`

	// PendingExpiresAt bounds how long a reserved registration may hold its
	// capacity slot while waiting for payment confirmation.
	PendingExpiresAt time.Time `bun:"pending_expires_at,nullzero" json:"-"`

	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	ConfirmedAt time.Time `bun:"confirmed_at,nullzero" json:"confirmed_at,omitempty"`
}

// Active reports whether the row blocks another attempt by the same identity.
func (r *Registration) Active() bool {
	return r.Status != RegistrationCancelled
}

// PendingExpired reports whether a reserved registration has outlived its
// payment window and may be reclaimed.
func (r *Registration) PendingExpired(now time.Time) bool {
	return r.Status == RegistrationReserved &&
		!r.PendingExpiresAt.IsZero() &&
		now.After(r.PendingExpiresAt)
}

// RegisterRequest is the body of POST /events/{eventId}/register. The
// PaymentIntentID field is only set on the confirmation call after the
// client-side charge succeeded.
type RegisterRequest struct {
	AttendeeName    string `json:"attendee_name"`
	AttendeeEmail   string `json:"attendee_email"`
	AttendeePhone   string `json:"attendee_phone,omitempty"`
	SpecialRequest  string `json:"special_request,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

// RegisterResponse is returned on every successful Register call. For a paid
// event's first phase TicketNumber is empty and ClientSecret carries the
// processor handle the client needs to complete the charge.
type RegisterResponse struct {
	Registration  *Registration `json:"registration"`
	TicketNumber  string        `json:"ticket_number,omitempty"`
	ClientSecret  string        `json:"client_secret,omitempty"`
	AlreadyExists bool          `json:"already_registered,omitempty"`
}

// RegistrationEvent is the payload published to Kafka on lifecycle
// transitions.
type RegistrationEvent struct {
	Type           string    `json:"type"`
	RegistrationID string    `json:"registration_id"`
	EventID        string    `json:"event_id"`
	IdentityID     string    `json:"identity_id"`
	TicketNumber   string    `json:"ticket_number,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
