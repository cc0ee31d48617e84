package db

import (
	"context"
	"database/sql"
	"errors"

	"ms-registration/internal/models"
)

// ErrCapacityExceeded is returned by TryReserve when an event has no slots
// left. It is deliberately distinct from every other failure so callers can
// render "Registration Full" deterministically.
var ErrCapacityExceeded = errors.New("event capacity exceeded")

// ---------------- CAPACITY LEDGER ----------------
//
// The ledger is the single serialization point for capacity. Every mutation
// is one conditional UPDATE checked by rows-affected, never a read-then-write
// pair in application code: two requests racing for the last slot hit the
// same row and the database arbitrates.

// EnsureEntry creates the ledger row for an event if it does not exist yet.
// Idempotent; safe to call on every registration attempt.
func (d *DB) EnsureEntry(ctx context.Context, eventID string, capacity int) error {
	entry := &models.CapacityEntry{
		EventID:  eventID,
		Capacity: capacity,
	}
	_, err := d.Bun.NewInsert().
		Model(entry).
		On("CONFLICT (event_id) DO NOTHING").
		Exec(ctx)
	return err
}

// TryReserve atomically claims one slot. The check reserved_count < capacity
// and the increment happen in the same UPDATE.
func (d *DB) TryReserve(ctx context.Context, eventID string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.CapacityEntry)(nil)).
		Set("reserved_count = reserved_count + 1").
		Where("event_id = ?", eventID).
		Where("reserved_count < capacity").
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	// Distinguish a full event from a missing ledger row.
	if _, err := d.GetCapacityEntry(ctx, eventID); err != nil {
		return err
	}
	return ErrCapacityExceeded
}

// Release returns a reserved slot to the pool. Used on cancellation, decline
// and expiry. The reserved_count > 0 guard makes a double release harmless at
// the ledger level.
func (d *DB) Release(ctx context.Context, eventID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.CapacityEntry)(nil)).
		Set("reserved_count = reserved_count - 1").
		Where("event_id = ?", eventID).
		Where("reserved_count > 0").
		Exec(ctx)
	return err
}

// Promote converts a reservation into a confirmed, capacity-counted
// registration. reserved_count is untouched: a confirmed registration still
// occupies its reserved slot.
func (d *DB) Promote(ctx context.Context, eventID string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.CapacityEntry)(nil)).
		Set("confirmed_count = confirmed_count + 1").
		Where("event_id = ?", eventID).
		Where("confirmed_count < capacity").
		Exec(ctx)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// GetCapacityEntry fetches the ledger row for an event.
func (d *DB) GetCapacityEntry(ctx context.Context, eventID string) (*models.CapacityEntry, error) {
	var entry models.CapacityEntry
	err := d.Bun.NewSelect().
		Model(&entry).
		Where("event_id = ?", eventID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
