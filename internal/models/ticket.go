package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Ticket is the user-facing proof of a confirmed registration. TicketNumber
// is globally unique across all events; the QR payload is a signed token for
// door check-in.
type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	TicketNumber   string    `bun:"ticket_number,pk" json:"ticket_number"`
	RegistrationID string    `bun:"registration_id,notnull" json:"registration_id"`
	EventID        string    `bun:"event_id,notnull" json:"event_id"`
	HolderName     string    `bun:"holder_name" json:"holder_name"`
	QRCode         []byte    `bun:"qr_code" json:"-"`
	IssuedAt       time.Time `bun:"issued_at,notnull" json:"issued_at"`
	CheckedIn      bool      `bun:"checked_in" json:"checked_in"`
	CheckedInTime  time.Time `bun:"checked_in_time,nullzero" json:"checked_in_time,omitempty"`
}
