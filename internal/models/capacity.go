package models

import (
	"github.com/uptrace/bun"
)

// CapacityEntry is the per-event ledger row. ReservedCount counts reserved
// plus confirmed registrations; ConfirmedCount only confirmed ones. The
// invariant confirmed_count <= capacity holds at all times, reserved_count <=
// capacity at the moment a reservation is granted.
type CapacityEntry struct {
	bun.BaseModel `bun:"table:event_capacity"`

	EventID        string `bun:"event_id,pk" json:"event_id"`
	Capacity       int    `bun:"capacity,notnull" json:"capacity"`
	ReservedCount  int    `bun:"reserved_count,notnull" json:"reserved_count"`
	ConfirmedCount int    `bun:"confirmed_count,notnull" json:"confirmed_count"`
}

// Remaining returns the number of slots still reservable.
func (c *CapacityEntry) Remaining() int {
	if c.ReservedCount >= c.Capacity {
		return 0
	}
	return c.Capacity - c.ReservedCount
}
