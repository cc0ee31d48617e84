package registration_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ms-registration/internal/models"
	"ms-registration/internal/payment/gateway"
	"ms-registration/internal/registration"
	regdb "ms-registration/internal/registration/db"
	"ms-registration/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

// fakeGateway scripts the payment processor. By default every created intent
// is pending and GetStatus reports whatever status is set.
type fakeGateway struct {
	mu           sync.Mutex
	createErr    error
	statusErr    error
	status       models.IntentStatus
	createCalls  int
	statusCalls  int
	lastParams   gateway.CreateIntentParams
	issuedIntent string
}

func (f *fakeGateway) CreateIntent(ctx context.Context, p gateway.CreateIntentParams) (*gateway.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastParams = p
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.issuedIntent = fmt.Sprintf("pi_fake_%d", f.createCalls)
	return &gateway.Intent{
		ID:           f.issuedIntent,
		ClientSecret: f.issuedIntent + "_secret",
		Status:       models.IntentPending,
	}, nil
}

func (f *fakeGateway) GetIntent(ctx context.Context, intentRef string) (*gateway.Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &gateway.Intent{
		ID:           intentRef,
		ClientSecret: intentRef + "_secret",
		Status:       f.status,
	}, nil
}

func (f *fakeGateway) GetStatus(ctx context.Context, intentRef string) (models.IntentStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return "", f.statusErr
	}
	return f.status, nil
}

// recordingPublisher captures lifecycle events instead of talking to Kafka.
type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
}

func (p *recordingPublisher) PublishRegistrationConfirmed(reg models.Registration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, reg.ID)
	return nil
}

func (p *recordingPublisher) PublishRegistrationCancelled(reg models.Registration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, reg.ID)
	return nil
}

type testEnv struct {
	service   *registration.Service
	store     *regdb.DB
	gateway   *fakeGateway
	publisher *recordingPublisher
	bunDB     *bun.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqldb, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, regdb.Migrate(context.Background(), bunDB))
	t.Cleanup(func() { bunDB.Close() })

	store := &regdb.DB{Bun: bunDB}
	gw := &fakeGateway{status: models.IntentPending}
	pub := &recordingPublisher{}

	service := registration.NewService(store, store, gw, tickets.NewIssuer("test-secret"), registration.Options{
		Kafka:      pub,
		PendingTTL: 30 * time.Minute,
	})

	return &testEnv{service: service, store: store, gateway: gw, publisher: pub, bunDB: bunDB}
}

func (e *testEnv) seedEvent(t *testing.T, id string, capacity int, priceCents int64, live bool) {
	t.Helper()
	event := &models.Event{
		ID:         id,
		Name:       "Test Event " + id,
		Capacity:   capacity,
		PriceCents: priceCents,
		IsLive:     live,
		IsActive:   true,
		StartDate:  time.Now().Add(48 * time.Hour),
		CreatedAt:  time.Now(),
	}
	_, err := e.bunDB.NewInsert().Model(event).Exec(context.Background())
	require.NoError(t, err)
}

func attendee() models.RegisterRequest {
	return models.RegisterRequest{
		AttendeeName:  "Alice Perera",
		AttendeeEmail: "alice@example.com",
	}
}

func TestRegister_FreeEventConfirmsImmediately(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-free", 10, 0, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-free", "user-1", attendee())
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationConfirmed, resp.Registration.Status)
	assert.Equal(t, models.PaymentNotRequired, resp.Registration.PaymentStatus)
	assert.NotEmpty(t, resp.TicketNumber)
	assert.False(t, resp.AlreadyExists)

	// No processor involvement for a free event.
	assert.Zero(t, env.gateway.createCalls)

	// Ticket persisted and retrievable.
	ticket, err := env.service.GetTicket(ctx, resp.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.TicketNumber, ticket.TicketNumber)

	// Ledger counted it.
	entry, err := env.store.GetCapacityEntry(ctx, "event-free")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ReservedCount)
	assert.Equal(t, 1, entry.ConfirmedCount)

	assert.Equal(t, []string{resp.Registration.ID}, env.publisher.confirmed)
}

func TestRegister_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-free", 10, 0, true)
	ctx := context.Background()

	first, err := env.service.Register(ctx, "event-free", "user-1", attendee())
	require.NoError(t, err)

	second, err := env.service.Register(ctx, "event-free", "user-1", attendee())
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.TicketNumber, second.TicketNumber)
	assert.Equal(t, first.Registration.ID, second.Registration.ID)

	// The repeat consumed no capacity.
	entry, err := env.store.GetCapacityEntry(ctx, "event-free")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ReservedCount)
}

func TestRegister_GuestDoubleSubmitSameIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-free", 10, 0, true)
	ctx := context.Background()

	// Two browser-retry submissions resolve to the same guest identity.
	const guestID = "guest-7d4e2c5a-identity"

	first, err := env.service.Register(ctx, "event-free", guestID, attendee())
	require.NoError(t, err)
	second, err := env.service.Register(ctx, "event-free", guestID, attendee())
	require.NoError(t, err)

	assert.False(t, first.AlreadyExists)
	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.Registration.ID, second.Registration.ID)
}

func TestRegister_EventFull(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-small", 1, 0, true)
	ctx := context.Background()

	_, err := env.service.Register(ctx, "event-small", "user-1", attendee())
	require.NoError(t, err)

	_, err = env.service.Register(ctx, "event-small", "user-2", attendee())
	assert.ErrorIs(t, err, registration.ErrEventFull)
}

func TestRegister_ClosedAndMissingEvents(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-draft", 10, 0, false)
	ctx := context.Background()

	_, err := env.service.Register(ctx, "event-draft", "user-1", attendee())
	assert.ErrorIs(t, err, registration.ErrRegistrationClosed)

	_, err = env.service.Register(ctx, "no-such-event", "user-1", attendee())
	assert.ErrorIs(t, err, registration.ErrEventNotFound)
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Register(ctx, "event-1", "user-1", models.RegisterRequest{AttendeeEmail: "a@b.com"})
	assert.ErrorIs(t, err, registration.ErrValidation)

	_, err = env.service.Register(ctx, "event-1", "user-1", models.RegisterRequest{AttendeeName: "Alice"})
	assert.ErrorIs(t, err, registration.ErrValidation)
}

func TestRegister_PaidEventReservesAndCreatesIntent(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationReserved, resp.Registration.Status)
	assert.Equal(t, models.PaymentPending, resp.Registration.PaymentStatus)
	assert.Empty(t, resp.TicketNumber)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.NotEmpty(t, resp.Registration.PaymentIntentID)
	assert.False(t, resp.Registration.PendingExpiresAt.IsZero())

	// The amount comes from the catalog, and the idempotency key is derived
	// from the registration, not the request.
	assert.Equal(t, int64(5000), env.gateway.lastParams.AmountCents)
	assert.Equal(t, "reg-intent-"+resp.Registration.ID, env.gateway.lastParams.IdempotencyKey)
	assert.Equal(t, resp.Registration.ID, env.gateway.lastParams.Metadata["registration_id"])

	// Slot held but not confirmed.
	entry, err := env.store.GetCapacityEntry(ctx, "event-paid")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ReservedCount)
	assert.Equal(t, 0, entry.ConfirmedCount)
}

func TestConfirmByIntent_SucceededIssuesTicket(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentSucceeded
	confirmed, err := env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	require.NoError(t, err)

	assert.Equal(t, models.RegistrationConfirmed, confirmed.Registration.Status)
	assert.Equal(t, models.PaymentCompleted, confirmed.Registration.PaymentStatus)
	assert.NotEmpty(t, confirmed.TicketNumber)

	entry, err := env.store.GetCapacityEntry(ctx, "event-paid")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ConfirmedCount)

	assert.Equal(t, []string{resp.Registration.ID}, env.publisher.confirmed)
}

func TestConfirmByIntent_SecondDeliveryIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentSucceeded
	first, err := env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	require.NoError(t, err)

	// The other delivery path (webhook vs client call) arrives second.
	second, err := env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	require.NoError(t, err)

	assert.True(t, second.AlreadyExists)
	assert.Equal(t, first.TicketNumber, second.TicketNumber)

	// Exactly one ticket, one promote, one publish.
	entry, err := env.store.GetCapacityEntry(ctx, "event-paid")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ConfirmedCount)
	assert.Len(t, env.publisher.confirmed, 1)
}

func TestConfirmByIntent_DeclineReleasesSlot(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 1, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentFailed
	_, err = env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	assert.ErrorIs(t, err, registration.ErrPaymentDeclined)

	// The registration is cancelled and its slot is free again.
	current, err := env.store.GetRegistrationByID(ctx, resp.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCancelled, current.Status)
	assert.Equal(t, models.PaymentFailed, current.PaymentStatus)

	env.gateway.status = models.IntentPending
	retry, err := env.service.Register(ctx, "event-paid", "user-2", attendee())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationReserved, retry.Registration.Status)

	assert.Equal(t, []string{resp.Registration.ID}, env.publisher.cancelled)
}

func TestFailByIntent_ReleasesSlotWithoutStatusLookup(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 1, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	// A declined charge parks the intent where a status lookup would call it
	// pending; the failure event must cancel anyway.
	env.gateway.status = models.IntentPending
	err = env.service.FailByIntent(ctx, resp.Registration.PaymentIntentID)
	assert.ErrorIs(t, err, registration.ErrPaymentDeclined)
	assert.Zero(t, env.gateway.statusCalls, "decline is taken from the event, not a status lookup")

	current, err := env.store.GetRegistrationByID(ctx, resp.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCancelled, current.Status)
	assert.Equal(t, models.PaymentFailed, current.PaymentStatus)
	assert.Equal(t, []string{resp.Registration.ID}, env.publisher.cancelled)

	// The slot is free again right away, not at hold expiry.
	retry, err := env.service.Register(ctx, "event-paid", "user-2", attendee())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationReserved, retry.Registration.Status)

	// Redelivery of the same failure is a no-op.
	require.NoError(t, env.service.FailByIntent(ctx, resp.Registration.PaymentIntentID))
	assert.Len(t, env.publisher.cancelled, 1)

	// Unknown intent.
	err = env.service.FailByIntent(ctx, "pi_unknown")
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)
}

func TestFailByIntent_AfterConfirmKeepsTicket(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentSucceeded
	confirmed, err := env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	require.NoError(t, err)

	// A stale failure event arriving behind the success changes nothing.
	require.NoError(t, env.service.FailByIntent(ctx, resp.Registration.PaymentIntentID))

	current, err := env.store.GetRegistrationByID(ctx, resp.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, current.Status)
	assert.Equal(t, confirmed.TicketNumber, current.TicketNumber)
	assert.Empty(t, env.publisher.cancelled)

	entry, err := env.store.GetCapacityEntry(ctx, "event-paid")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ConfirmedCount)
}

func TestConfirmByIntent_StillPending(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentPending
	_, err = env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	assert.ErrorIs(t, err, registration.ErrPaymentPending)

	// Nothing changed: still reserved, slot still held.
	current, err := env.store.GetRegistrationByID(ctx, resp.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationReserved, current.Status)
}

func TestRegister_GatewayUnavailableLeavesNoPartialState(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 1, 5000, true)
	ctx := context.Background()

	env.gateway.createErr = fmt.Errorf("%w: connection reset", gateway.ErrUnavailable)
	_, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	assert.ErrorIs(t, err, registration.ErrGatewayUnavailable)

	// The slot came back and a retry can succeed.
	env.gateway.createErr = nil
	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationReserved, resp.Registration.Status)
}

func TestRegister_ExpiredPendingIsReclaimedOnRead(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 1, 5000, true)
	ctx := context.Background()

	stale, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	// Age the hold past its window.
	_, err = env.bunDB.NewUpdate().
		Model((*models.Registration)(nil)).
		Set("pending_expires_at = ?", time.Now().UTC().Add(-time.Hour)).
		Where("id = ?", stale.Registration.ID).
		Exec(ctx)
	require.NoError(t, err)

	// A retry finds the expired hold and reclaims it in-line rather than
	// waiting for the sweep.
	fresh, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)
	assert.NotEqual(t, stale.Registration.ID, fresh.Registration.ID)
	assert.False(t, fresh.AlreadyExists)

	old, err := env.store.GetRegistrationByID(ctx, stale.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCancelled, old.Status)
}

func TestSweeper_ReclaimsExpiredHolds(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 2, 5000, true)
	ctx := context.Background()

	expired, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)
	live, err := env.service.Register(ctx, "event-paid", "user-2", attendee())
	require.NoError(t, err)

	_, err = env.bunDB.NewUpdate().
		Model((*models.Registration)(nil)).
		Set("pending_expires_at = ?", time.Now().UTC().Add(-time.Hour)).
		Where("id = ?", expired.Registration.ID).
		Exec(ctx)
	require.NoError(t, err)

	sweeper := registration.NewSweeper(env.service, time.Minute)
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	reclaimed, err := env.store.GetRegistrationByID(ctx, expired.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationCancelled, reclaimed.Status)

	untouched, err := env.store.GetRegistrationByID(ctx, live.Registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationReserved, untouched.Status)

	// The reclaimed slot is usable again.
	entry, err := env.store.GetCapacityEntry(ctx, "event-paid")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.ReservedCount)
}

func TestConfirmByIntent_UnknownIntent(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.service.ConfirmByIntent(context.Background(), "pi_unknown")
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)
}

func TestConfirmByIntent_CancelledRegistrationIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 5000, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	env.gateway.status = models.IntentFailed
	_, err = env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	require.ErrorIs(t, err, registration.ErrPaymentDeclined)

	// A late success for the cancelled registration never resurrects it.
	env.gateway.status = models.IntentSucceeded
	_, err = env.service.ConfirmByIntent(ctx, resp.Registration.PaymentIntentID)
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)
}

func TestCreateIntentForEvent_FreeEventRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-free", 10, 0, true)

	_, err := env.service.CreateIntentForEvent(context.Background(), "event-free", "user-1", attendee())
	assert.ErrorIs(t, err, registration.ErrValidation)
}

func TestCreateIntentForEvent_ReturnsSecret(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 7500, true)

	resp, err := env.service.CreateIntentForEvent(context.Background(), "event-paid", "user-1", attendee())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ClientSecret)
	assert.Equal(t, int64(7500), resp.AmountCents)
}

func TestCreateIntentForEvent_RecoversPendingSecret(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-paid", 10, 7500, true)
	ctx := context.Background()

	first, err := env.service.CreateIntentForEvent(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)

	// A page refresh mid-checkout asks again: the same intent and secret come
	// back instead of a lockout, and no second intent is created.
	second, err := env.service.CreateIntentForEvent(ctx, "event-paid", "user-1", attendee())
	require.NoError(t, err)
	assert.Equal(t, first.PaymentIntentID, second.PaymentIntentID)
	assert.Equal(t, first.ClientSecret, second.ClientSecret)
	assert.Equal(t, 1, env.gateway.createCalls)

	// Once the registration confirms, asking for another intent is refused.
	env.gateway.status = models.IntentSucceeded
	_, err = env.service.ConfirmByIntent(ctx, second.PaymentIntentID)
	require.NoError(t, err)

	_, err = env.service.CreateIntentForEvent(ctx, "event-paid", "user-1", attendee())
	assert.ErrorIs(t, err, registration.ErrAlreadyRegistered)
}

func TestCheckInTicket_OnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seedEvent(t, "event-free", 10, 0, true)
	ctx := context.Background()

	resp, err := env.service.Register(ctx, "event-free", "user-1", attendee())
	require.NoError(t, err)

	ticket, err := env.service.CheckInTicket(ctx, resp.TicketNumber)
	require.NoError(t, err)
	assert.True(t, ticket.CheckedIn)
	assert.False(t, ticket.CheckedInTime.IsZero())

	// Second scan is rejected.
	_, err = env.service.CheckInTicket(ctx, resp.TicketNumber)
	assert.ErrorIs(t, err, regdb.ErrAlreadyCheckedIn)

	// Unknown ticket.
	_, err = env.service.CheckInTicket(ctx, "TKT-XXXX-XXXX-XXXX")
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)
}

func TestRegister_ConcurrentIdentitiesNoOversell(t *testing.T) {
	env := newTestEnv(t)
	const capacity = 3
	env.seedEvent(t, "event-hot", capacity, 0, true)
	ctx := context.Background()

	const attempts = 12
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := env.service.Register(ctx, "event-hot", fmt.Sprintf("user-%d", n), attendee())
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	granted, full := 0, 0
	for err := range results {
		switch {
		case err == nil:
			granted++
		case errors.Is(err, registration.ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected register error: %v", err)
		}
	}

	assert.Equal(t, capacity, granted)
	assert.Equal(t, attempts-capacity, full)

	entry, err := env.store.GetCapacityEntry(ctx, "event-hot")
	require.NoError(t, err)
	assert.Equal(t, capacity, entry.ConfirmedCount)
}
