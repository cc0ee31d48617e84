package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event is the read-only catalog entry this service registers people against.
// Ownership of event content lives elsewhere; we only consume capacity, price
// and the live/active flags.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,nullzero" json:"description,omitempty"`
	Capacity    int       `bun:"capacity,notnull" json:"capacity"`
	PriceCents  int64     `bun:"price_cents,notnull" json:"price_cents"`
	IsLive      bool      `bun:"is_live" json:"is_live"`
	IsActive    bool      `bun:"is_active" json:"is_active"`
	StartDate   time.Time `bun:"start_date,nullzero" json:"start_date"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Free reports whether registration for the event requires no payment.
func (e *Event) Free() bool {
	return e.PriceCents == 0
}

// OpenForRegistration reports whether the event accepts new registrations at
// all. Capacity is checked separately by the ledger.
func (e *Event) OpenForRegistration() bool {
	return e.IsLive && e.IsActive
}
