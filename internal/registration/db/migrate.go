package db

import (
	"context"

	"ms-registration/internal/models"

	"github.com/uptrace/bun"
)

// Migrate creates the tables this service owns. Production deployments run
// the SQL migrations under migrations/ instead; this path covers development
// and the sqlite-backed tests.
func Migrate(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Event)(nil),
		(*models.Registration)(nil),
		(*models.Ticket)(nil),
		(*models.CapacityEntry)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	// One active registration per (event, identity). Partial so a cancelled
	// attempt never blocks a retry. Works on both sqlite and Postgres.
	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_registrations_active
		 ON registrations (event_id, identity_id)
		 WHERE status != 'cancelled'`); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_registrations_intent
		 ON registrations (payment_intent_id)`); err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_registrations_pending_expiry
		 ON registrations (status, pending_expires_at)`); err != nil {
		return err
	}

	return nil
}
