package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"ms-registration/internal/models"

	"github.com/uptrace/bun"
)

// Store-level sentinel errors. The service layer translates these into the
// user-facing taxonomy.
var (
	ErrNotFound         = errors.New("not found")
	ErrDuplicate        = errors.New("duplicate active registration")
	ErrVersionConflict  = errors.New("registration was modified concurrently")
	ErrAlreadyCheckedIn = errors.New("ticket already checked in")
)

type DB struct {
	Bun *bun.DB
}

// ---------------- EVENTS (read-only here) ----------------

// GetEvent fetches one catalog entry by id.
func (d *DB) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ---------------- REGISTRATIONS ----------------

// CreateRegistration inserts a new registration row. A second active row for
// the same (event, identity) pair violates the partial unique index and comes
// back as ErrDuplicate, which is what makes concurrent double-submission safe.
func (d *DB) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	_, err := d.Bun.NewInsert().Model(reg).Exec(ctx)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetRegistrationByID fetches one registration by its id.
func (d *DB) GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	var reg models.Registration
	err := d.Bun.NewSelect().
		Model(&reg).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// GetActiveRegistration finds the non-cancelled registration for an
// (event, identity) pair, if any. This is the idempotency lookup.
func (d *DB) GetActiveRegistration(ctx context.Context, eventID, identityID string) (*models.Registration, error) {
	var reg models.Registration
	err := d.Bun.NewSelect().
		Model(&reg).
		Where("event_id = ?", eventID).
		Where("identity_id = ?", identityID).
		Where("status != ?", models.RegistrationCancelled).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// GetRegistrationByIntent finds the registration tied to a payment intent
// reference. Used by the webhook path.
func (d *DB) GetRegistrationByIntent(ctx context.Context, intentID string) (*models.Registration, error) {
	var reg models.Registration
	err := d.Bun.NewSelect().
		Model(&reg).
		Where("payment_intent_id = ?", intentID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// UpdateRegistrationCAS writes a registration back, guarded by the version it
// was read at. Exactly one of two racing writers wins; the loser gets
// ErrVersionConflict and must re-read.
func (d *DB) UpdateRegistrationCAS(ctx context.Context, reg *models.Registration) error {
	readVersion := reg.Version
	reg.Version++

	res, err := d.Bun.NewUpdate().
		Model(reg).
		Column("status", "payment_status", "payment_intent_id", "ticket_number",
			"pending_expires_at", "confirmed_at", "version").
		Where("id = ?", reg.ID).
		Where("version = ?", readVersion).
		Exec(ctx)
	if err != nil {
		reg.Version = readVersion
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		reg.Version = readVersion
		return err
	}
	if rows == 0 {
		reg.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}

// GetRegistrationsByIdentity returns all confirmed and pending registrations
// for an identity, newest first. Cancelled rows stay out of the listing.
func (d *DB) GetRegistrationsByIdentity(ctx context.Context, identityID string) ([]models.Registration, error) {
	var regs []models.Registration
	err := d.Bun.NewSelect().
		Model(&regs).
		Where("identity_id = ?", identityID).
		Where("status != ?", models.RegistrationCancelled).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []models.Registration{}
	}
	return regs, nil
}

// ListExpiredPending returns reserved registrations whose payment window
// closed before the cutoff. The expiry sweep feeds on this.
func (d *DB) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Registration, error) {
	var regs []models.Registration
	err := d.Bun.NewSelect().
		Model(&regs).
		Where("status = ?", models.RegistrationReserved).
		Where("pending_expires_at IS NOT NULL").
		Where("pending_expires_at <= ?", cutoff).
		Order("pending_expires_at ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// ---------------- TICKETS ----------------

// CreateTicket persists an issued ticket.
func (d *DB) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	_, err := d.Bun.NewInsert().Model(ticket).Exec(ctx)
	return err
}

// GetTicketByRegistration fetches the ticket for a confirmed registration.
func (d *DB) GetTicketByRegistration(ctx context.Context, registrationID string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("registration_id = ?", registrationID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// GetTicketByNumber fetches a ticket by its public number.
func (d *DB) GetTicketByNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("ticket_number = ?", ticketNumber).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// MarkTicketCheckedIn flips a ticket to checked-in exactly once. The
// checked_in = false guard makes a concurrent double scan lose cleanly.
func (d *DB) MarkTicketCheckedIn(ctx context.Context, ticketNumber string) error {
	res, err := d.Bun.NewUpdate().
		Model((*models.Ticket)(nil)).
		Set("checked_in = ?", true).
		Set("checked_in_time = ?", time.Now().UTC()).
		Where("ticket_number = ?", ticketNumber).
		Where("checked_in = ?", false).
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

	if _, err := d.GetTicketByNumber(ctx, ticketNumber); err != nil {
		return err
	}
	return ErrAlreadyCheckedIn
}

// isUniqueViolation matches unique-index errors from both the sqlite driver
// used in tests and the Postgres driver used in production.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value") || // postgres
		strings.Contains(msg, "SQLSTATE 23505")
}
