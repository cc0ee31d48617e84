package storage_test

import (
	"database/sql"
	"testing"
	"time"

	"ms-registration/internal/logger"
	"ms-registration/internal/models"
	"ms-registration/internal/payment/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupStore(t *testing.T) *storage.PostgreSQLStore {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	t.Cleanup(func() { sqldb.Close() })

	store, err := storage.NewPostgreSQLStoreWithDB(sqldb, logger.NewNopLogger())
	require.NoError(t, err)
	return store
}

func sampleIntent(intentID string) *models.PaymentIntentRecord {
	return &models.PaymentIntentRecord{
		IntentID:       intentID,
		RegistrationID: "reg-1",
		EventID:        "event-1",
		AmountCents:    5000,
		Currency:       "usd",
		Status:         models.IntentPending,
		CreatedDate:    time.Now().UTC(),
	}
}

func TestSaveAndGetIntent(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveIntent(sampleIntent("pi_1")))

	record, err := store.GetIntent("pi_1")
	require.NoError(t, err)
	assert.Equal(t, "reg-1", record.RegistrationID)
	assert.Equal(t, int64(5000), record.AmountCents)
	assert.Equal(t, models.IntentPending, record.Status)
	assert.True(t, record.UpdatedDate.IsZero())

	_, err = store.GetIntent("pi_unknown")
	assert.ErrorIs(t, err, storage.ErrIntentNotFound)
}

func TestUpdateIntentStatus(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveIntent(sampleIntent("pi_1")))
	require.NoError(t, store.UpdateIntentStatus("pi_1", models.IntentSucceeded))

	record, err := store.GetIntent("pi_1")
	require.NoError(t, err)
	assert.Equal(t, models.IntentSucceeded, record.Status)
	assert.False(t, record.UpdatedDate.IsZero())

	err = store.UpdateIntentStatus("pi_unknown", models.IntentFailed)
	assert.ErrorIs(t, err, storage.ErrIntentNotFound)
}

func TestListIntentsByEvent(t *testing.T) {
	store := setupStore(t)

	for _, id := range []string{"pi_1", "pi_2", "pi_3"} {
		record := sampleIntent(id)
		require.NoError(t, store.SaveIntent(record))
	}
	other := sampleIntent("pi_other")
	other.EventID = "event-2"
	require.NoError(t, store.SaveIntent(other))

	records, err := store.ListIntentsByEvent("event-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// Paging.
	page, err := store.ListIntentsByEvent("event-1", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	none, err := store.ListIntentsByEvent("event-none", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
