package storage

import (
	"errors"

	"ms-registration/internal/models"
)

// ErrIntentNotFound is returned when no audit row matches the reference.
var ErrIntentNotFound = errors.New("payment intent record not found")

// Store is the audit trail of payment intents. It is write-mostly: the
// orchestrator records every intent it creates and every status transition it
// observes; reconciliation tooling reads it back. Registration correctness
// never depends on this table.
type Store interface {
	SaveIntent(record *models.PaymentIntentRecord) error
	UpdateIntentStatus(intentID string, status models.IntentStatus) error
	GetIntent(intentID string) (*models.PaymentIntentRecord, error)
	ListIntentsByEvent(eventID string, limit, offset int) ([]*models.PaymentIntentRecord, error)
}
