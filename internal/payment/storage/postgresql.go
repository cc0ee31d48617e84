package storage

import (
	"database/sql"
	"fmt"
	"time"

	"ms-registration/internal/config"
	"ms-registration/internal/logger"
	"ms-registration/internal/models"

	_ "github.com/lib/pq"
)

type PostgreSQLStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewPostgreSQLStoreWithDB creates the audit store on an existing connection.
// Tests pass a sqlite handle here; the schema below runs on both engines.
func NewPostgreSQLStoreWithDB(db *sql.DB, log *logger.Logger) (*PostgreSQLStore, error) {
	store := &PostgreSQLStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		log.Error("DATABASE", "Failed to initialize payment intent tables: "+err.Error())
		return nil, fmt.Errorf("failed to initialize payment intent tables: %w", err)
	}

	return store, nil
}

func NewPostgreSQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*PostgreSQLStore, error) {
	log.LogDatabase("CONNECT", "postgresql", fmt.Sprintf("Connecting to PostgreSQL at %s:%s", cfg.Host, cfg.Port))

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgreSQLStore{db: db, log: log}

	if err := store.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "postgresql", "Payment intent audit store ready")
	return store, nil
}

func (s *PostgreSQLStore) initTables() error {
	query := `
    CREATE TABLE IF NOT EXISTS payment_intents (
        intent_id VARCHAR(255) PRIMARY KEY,
        registration_id VARCHAR(36) NOT NULL,
        event_id VARCHAR(36) NOT NULL,
        amount_cents BIGINT NOT NULL,
        currency VARCHAR(8) NOT NULL,
        status VARCHAR(20) NOT NULL,
        created_date TIMESTAMP NOT NULL,
        updated_date TIMESTAMP
    );
    `
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create payment_intents table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_payment_intents_registration ON payment_intents(registration_id);",
		"CREATE INDEX IF NOT EXISTS idx_payment_intents_event ON payment_intents(event_id);",
		"CREATE INDEX IF NOT EXISTS idx_payment_intents_status ON payment_intents(status);",
	}
	for _, indexQuery := range indexes {
		if _, err := s.db.Exec(indexQuery); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// SaveIntent records a newly created intent.
func (s *PostgreSQLStore) SaveIntent(record *models.PaymentIntentRecord) error {
	query := `
    INSERT INTO payment_intents (
        intent_id, registration_id, event_id, amount_cents, currency, status, created_date
    ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := s.db.Exec(query,
		record.IntentID, record.RegistrationID, record.EventID,
		record.AmountCents, record.Currency, record.Status, record.CreatedDate,
	)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save intent %s: %s", record.IntentID, err.Error()))
		return fmt.Errorf("failed to save payment intent: %w", err)
	}

	return nil
}

// UpdateIntentStatus records a status transition observed from the processor.
func (s *PostgreSQLStore) UpdateIntentStatus(intentID string, status models.IntentStatus) error {
	query := `UPDATE payment_intents SET status = $1, updated_date = $2 WHERE intent_id = $3`

	res, err := s.db.Exec(query, status, time.Now().UTC(), intentID)
	if err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to update intent %s: %s", intentID, err.Error()))
		return fmt.Errorf("failed to update payment intent: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrIntentNotFound
	}
	return nil
}

// GetIntent retrieves one audit row.
func (s *PostgreSQLStore) GetIntent(intentID string) (*models.PaymentIntentRecord, error) {
	query := `
    SELECT intent_id, registration_id, event_id, amount_cents, currency, status, created_date, updated_date
    FROM payment_intents WHERE intent_id = $1
    `

	record := &models.PaymentIntentRecord{}
	var updated sql.NullTime
	err := s.db.QueryRow(query, intentID).Scan(
		&record.IntentID, &record.RegistrationID, &record.EventID,
		&record.AmountCents, &record.Currency, &record.Status,
		&record.CreatedDate, &updated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to get payment intent: %w", err)
	}
	if updated.Valid {
		record.UpdatedDate = updated.Time
	}

	return record, nil
}

// ListIntentsByEvent retrieves the audit trail for one event, newest first.
func (s *PostgreSQLStore) ListIntentsByEvent(eventID string, limit, offset int) ([]*models.PaymentIntentRecord, error) {
	query := `
    SELECT intent_id, registration_id, event_id, amount_cents, currency, status, created_date, updated_date
    FROM payment_intents
    WHERE event_id = $1
    ORDER BY created_date DESC
    LIMIT $2 OFFSET $3
    `

	rows, err := s.db.Query(query, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment intents: %w", err)
	}
	defer rows.Close()

	var records []*models.PaymentIntentRecord
	for rows.Next() {
		record := &models.PaymentIntentRecord{}
		var updated sql.NullTime
		if err := rows.Scan(
			&record.IntentID, &record.RegistrationID, &record.EventID,
			&record.AmountCents, &record.Currency, &record.Status,
			&record.CreatedDate, &updated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment intent: %w", err)
		}
		if updated.Valid {
			record.UpdatedDate = updated.Time
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
