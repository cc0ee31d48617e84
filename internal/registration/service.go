package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-registration/internal/identity"
	"ms-registration/internal/logger"
	"ms-registration/internal/models"
	"ms-registration/internal/payment/gateway"
	regdb "ms-registration/internal/registration/db"
	"ms-registration/internal/utils"

	"github.com/google/uuid"
)

// Store is the durable registration/event/ticket persistence the
// orchestrator depends on.
type Store interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	GetActiveRegistration(ctx context.Context, eventID, identityID string) (*models.Registration, error)
	GetRegistrationByIntent(ctx context.Context, intentID string) (*models.Registration, error)
	UpdateRegistrationCAS(ctx context.Context, reg *models.Registration) error
	GetRegistrationsByIdentity(ctx context.Context, identityID string) ([]models.Registration, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Registration, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicketByRegistration(ctx context.Context, registrationID string) (*models.Ticket, error)
	GetTicketByNumber(ctx context.Context, ticketNumber string) (*models.Ticket, error)
	MarkTicketCheckedIn(ctx context.Context, ticketNumber string) error
}

// Ledger is the per-event capacity ledger. TryReserve is the single
// serialization point for capacity; everything else in the pipeline is scoped
// to one registration row.
type Ledger interface {
	EnsureEntry(ctx context.Context, eventID string, capacity int) error
	TryReserve(ctx context.Context, eventID string) error
	Release(ctx context.Context, eventID string) error
	Promote(ctx context.Context, eventID string) error
}

// TicketIssuer mints the proof of a confirmed registration.
type TicketIssuer interface {
	Issue(reg *models.Registration) (*models.Ticket, error)
}

// AttemptLock bounds concurrent work on the same (event, identity) attempt.
// Optional; correctness holds without it.
type AttemptLock interface {
	LockAttempt(ctx context.Context, eventID, identityID, owner string) (bool, error)
	UnlockAttempt(ctx context.Context, eventID, identityID, owner string) error
}

// Publisher streams lifecycle events. Optional; failures are logged, never
// propagated into the registration path.
type Publisher interface {
	PublishRegistrationConfirmed(reg models.Registration) error
	PublishRegistrationCancelled(reg models.Registration) error
}

// IntentAudit records payment intents for reconciliation. Optional.
type IntentAudit interface {
	SaveIntent(record *models.PaymentIntentRecord) error
	UpdateIntentStatus(intentID string, status models.IntentStatus) error
}

// Options carries the optional collaborators and tuning knobs.
type Options struct {
	Lock       AttemptLock
	Kafka      Publisher
	Audit      IntentAudit
	Logger     *logger.Logger
	Currency   string
	PendingTTL time.Duration
	// WebhookSecret verifies processor webhook signatures (webhook.go).
	WebhookSecret string
}

// Service is the registration orchestrator: the one place that decides
// whether payment is required, reserves capacity, creates intents and - only
// once payment is confirmed - commits the registration and issues a ticket.
type Service struct {
	store   Store
	ledger  Ledger
	gateway gateway.Gateway
	issuer  TicketIssuer

	lock  AttemptLock
	kafka Publisher
	audit IntentAudit

	logger        *logger.Logger
	currency      string
	pendingTTL    time.Duration
	webhookSecret string
}

func NewService(store Store, ledger Ledger, gw gateway.Gateway, issuer TicketIssuer, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = 30 * time.Minute
	}

	return &Service{
		store:         store,
		ledger:        ledger,
		gateway:       gw,
		issuer:        issuer,
		lock:          opts.Lock,
		kafka:         opts.Kafka,
		audit:         opts.Audit,
		logger:        opts.Logger,
		currency:      opts.Currency,
		pendingTTL:    opts.PendingTTL,
		webhookSecret: opts.WebhookSecret,
	}
}

// Register drives one registration attempt through the state machine:
//
//	None -> Confirmed                    free event, single call
//	None -> Reserved{Pending}            paid event, first call
//	Reserved{Pending} -> Confirmed       confirmation call or webhook
//	Reserved{Pending} -> Cancelled       decline or expiry
//
// It is idempotent: a repeat call for an identity that already holds a
// confirmed registration returns the existing ticket and consumes nothing.
func (s *Service) Register(ctx context.Context, eventID, identityID string, req models.RegisterRequest) (*models.RegisterResponse, error) {
	if err := validateAttendee(req); err != nil {
		return nil, err
	}

	// Step 1: idempotency lookup before any side effect.
	existing, err := s.store.GetActiveRegistration(ctx, eventID, identityID)
	if err != nil && !errors.Is(err, regdb.ErrNotFound) {
		return nil, fmt.Errorf("lookup existing registration: %w", err)
	}

	if existing != nil {
		resp, done, err := s.resolveExisting(ctx, existing, req)
		if done {
			return resp, err
		}
		// The prior attempt was an expired hold and has been reclaimed;
		// fall through to a fresh attempt.
	}

	// Step 2: the event must exist and be open.
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, regdb.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("load event: %w", err)
	}
	if !event.OpenForRegistration() {
		return nil, ErrRegistrationClosed
	}

	// Step 3: reserve capacity. The ledger arbitrates concurrent attempts.
	if err := s.ledger.EnsureEntry(ctx, event.ID, event.Capacity); err != nil {
		return nil, fmt.Errorf("ensure capacity entry: %w", err)
	}
	if err := s.ledger.TryReserve(ctx, event.ID); err != nil {
		if errors.Is(err, regdb.ErrCapacityExceeded) {
			return nil, ErrEventFull
		}
		return nil, fmt.Errorf("reserve capacity: %w", err)
	}

	// The amount of record comes from the event catalog, never the client.
	amount := event.PriceCents

	reg := &models.Registration{
		ID:             uuid.NewString(),
		EventID:        event.ID,
		IdentityID:     identityID,
		AttendeeName:   req.AttendeeName,
		AttendeeEmail:  req.AttendeeEmail,
		AttendeePhone:  req.AttendeePhone,
		SpecialRequest: req.SpecialRequest,
		AmountCents:    amount,
		CreatedAt:      time.Now().UTC(),
	}

	if amount == 0 {
		return s.registerFree(ctx, reg)
	}
	return s.registerPaid(ctx, reg, req.PaymentIntentID)
}

// resolveExisting decides what an existing active registration means for a
// new attempt. done=false means the prior hold expired and was reclaimed, so
// the caller proceeds with a fresh attempt.
func (s *Service) resolveExisting(ctx context.Context, existing *models.Registration, req models.RegisterRequest) (*models.RegisterResponse, bool, error) {
	switch {
	case existing.Status == models.RegistrationConfirmed:
		// Idempotent success: same ticket, no new slot.
		return &models.RegisterResponse{
			Registration:  existing,
			TicketNumber:  existing.TicketNumber,
			AlreadyExists: true,
		}, true, nil

	case existing.PendingExpired(time.Now()):
		// Check-on-read reclaim: the abandoned hold releases its slot and
		// this attempt starts over.
		if err := s.cancelRegistration(ctx, existing, models.PaymentFailed); err != nil {
			if errors.Is(err, regdb.ErrVersionConflict) {
				// Someone else (sweep or a racing confirm) got there first.
				return nil, true, ErrAlreadyRegistered
			}
			return nil, true, fmt.Errorf("reclaim expired registration: %w", err)
		}
		s.logger.LogRegistration("EXPIRE", existing.ID, "expired pending hold reclaimed on new attempt")
		return nil, false, nil

	case req.PaymentIntentID != "":
		// Confirmation call for a live pending attempt.
		resp, err := s.confirmWithIntent(ctx, existing, req.PaymentIntentID)
		return resp, true, err

	default:
		// Pending attempt still inside its payment window. Surface it; the
		// client finishes or abandons it.
		return &models.RegisterResponse{
			Registration:  existing,
			AlreadyExists: true,
		}, true, nil
	}
}

// registerFree commits immediately: promote, ticket, done - one call.
func (s *Service) registerFree(ctx context.Context, reg *models.Registration) (*models.RegisterResponse, error) {
	reg.Status = models.RegistrationReserved
	reg.PaymentStatus = models.PaymentNotRequired

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		_ = s.ledger.Release(ctx, reg.EventID)
		if errors.Is(err, regdb.ErrDuplicate) {
			return s.returnConcurrentDuplicate(ctx, reg)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	resp, err := s.commit(ctx, reg)
	if err != nil {
		return nil, err
	}

	s.logger.LogRegistration("CONFIRM", reg.ID, "free registration confirmed")
	return resp, nil
}

// registerPaid either starts the two-phase flow (no intent ref yet) or
// finishes it (confirmation call).
func (s *Service) registerPaid(ctx context.Context, reg *models.Registration, intentRef string) (*models.RegisterResponse, error) {
	if intentRef != "" {
		// A confirmation call raced past the idempotency lookup; there is no
		// pending row to confirm against.
		_ = s.ledger.Release(ctx, reg.EventID)
		return nil, ErrRegistrationNotFound
	}

	reg.Status = models.RegistrationReserved
	reg.PaymentStatus = models.PaymentPending
	reg.PendingExpiresAt = time.Now().UTC().Add(s.pendingTTL)

	if s.lock != nil {
		ok, err := s.lock.LockAttempt(ctx, reg.EventID, reg.IdentityID, reg.ID)
		if err != nil {
			s.logger.Warn("REGISTER", fmt.Sprintf("attempt lock error for %s: %v", reg.ID, err))
		} else if !ok {
			_ = s.ledger.Release(ctx, reg.EventID)
			return nil, ErrAlreadyRegistered
		}
		defer func() {
			if s.lock != nil {
				_ = s.lock.UnlockAttempt(ctx, reg.EventID, reg.IdentityID, reg.ID)
			}
		}()
	}

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		_ = s.ledger.Release(ctx, reg.EventID)
		if errors.Is(err, regdb.ErrDuplicate) {
			return s.returnConcurrentDuplicate(ctx, reg)
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	// Step 5: one intent per Reserved record. The idempotency key keeps a
	// network-level retry from double-charging.
	intent, err := s.gateway.CreateIntent(ctx, gateway.CreateIntentParams{
		AmountCents:    reg.AmountCents,
		Currency:       s.currency,
		IdempotencyKey: utils.GenerateIntentIdempotencyKey(reg.ID),
		Metadata: map[string]string{
			"registration_id": reg.ID,
			"event_id":        reg.EventID,
		},
	})
	if err != nil {
		// No partial state: the failed attempt cancels and frees its slot.
		if cancelErr := s.cancelRegistration(ctx, reg, models.PaymentFailed); cancelErr != nil {
			s.logger.Error("REGISTER", fmt.Sprintf("failed to cancel %s after gateway error: %v", reg.ID, cancelErr))
		}
		if errors.Is(err, gateway.ErrUnavailable) {
			return nil, ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	reg.PaymentIntentID = intent.ID
	if err := s.store.UpdateRegistrationCAS(ctx, reg); err != nil {
		return nil, fmt.Errorf("attach intent to registration: %w", err)
	}

	if s.audit != nil {
		record := &models.PaymentIntentRecord{
			IntentID:       intent.ID,
			RegistrationID: reg.ID,
			EventID:        reg.EventID,
			AmountCents:    reg.AmountCents,
			Currency:       s.currency,
			Status:         models.IntentPending,
			CreatedDate:    time.Now().UTC(),
		}
		if err := s.audit.SaveIntent(record); err != nil {
			s.logger.Warn("PAYMENT", fmt.Sprintf("failed to record intent %s: %v", intent.ID, err))
		}
	}

	s.logger.LogRegistration("RESERVE", reg.ID,
		fmt.Sprintf("reserved with pending payment intent %s", intent.ID))

	// No ticket yet: commitment waits for the confirmation.
	return &models.RegisterResponse{
		Registration: reg,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// ConfirmByIntent is the convergence point for both confirmation delivery
// paths: the synchronous client call after the charge and the asynchronous
// processor webhook. Whichever arrives first wins; the other becomes an
// idempotent no-op.
func (s *Service) ConfirmByIntent(ctx context.Context, intentRef string) (*models.RegisterResponse, error) {
	reg, err := s.store.GetRegistrationByIntent(ctx, intentRef)
	if err != nil {
		if errors.Is(err, regdb.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("lookup registration by intent: %w", err)
	}
	return s.confirmWithIntent(ctx, reg, intentRef)
}

// FailByIntent records a processor-reported payment failure: the pending
// registration is cancelled and its slot released immediately, without a
// status round trip to the gateway. A failure event that lands after the
// registration already confirmed or cancelled is a no-op.
func (s *Service) FailByIntent(ctx context.Context, intentRef string) error {
	reg, err := s.store.GetRegistrationByIntent(ctx, intentRef)
	if err != nil {
		if errors.Is(err, regdb.ErrNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("lookup registration by intent: %w", err)
	}

	switch reg.Status {
	case models.RegistrationConfirmed:
		// A stale failure arriving behind a successful confirmation.
		s.logger.Warn("PAYMENT", fmt.Sprintf(
			"payment failure for already-confirmed registration %s (intent %s)", reg.ID, intentRef))
		return nil
	case models.RegistrationCancelled:
		return nil
	}

	if err := s.cancelRegistration(ctx, reg, models.PaymentFailed); err != nil {
		if errors.Is(err, regdb.ErrVersionConflict) {
			// The other delivery path or the sweep resolved it first.
			return nil
		}
		return fmt.Errorf("cancel after decline: %w", err)
	}
	if s.audit != nil {
		_ = s.audit.UpdateIntentStatus(intentRef, models.IntentFailed)
	}
	s.logger.LogRegistration("DECLINE", reg.ID, "payment declined, slot released")
	return ErrPaymentDeclined
}

// confirmWithIntent verifies the intent with the gateway and commits or
// cancels the registration accordingly.
func (s *Service) confirmWithIntent(ctx context.Context, reg *models.Registration, intentRef string) (*models.RegisterResponse, error) {
	if reg.Status == models.RegistrationConfirmed {
		return &models.RegisterResponse{
			Registration:  reg,
			TicketNumber:  reg.TicketNumber,
			AlreadyExists: true,
		}, nil
	}
	if reg.Status == models.RegistrationCancelled {
		// Terminal. A payment settling after expiry needs an operator-driven
		// refund; committing here would bypass the capacity ledger.
		s.logger.Warn("PAYMENT", fmt.Sprintf(
			"confirmation for cancelled registration %s (intent %s)", reg.ID, intentRef))
		return nil, ErrRegistrationNotFound
	}
	if reg.PaymentIntentID != "" && reg.PaymentIntentID != intentRef {
		return nil, fmt.Errorf("%w: payment intent mismatch", ErrValidation)
	}

	status, err := s.gateway.GetStatus(ctx, intentRef)
	if err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			return nil, ErrGatewayUnavailable
		}
		return nil, fmt.Errorf("verify payment intent: %w", err)
	}

	switch status {
	case models.IntentSucceeded:
		reg.PaymentIntentID = intentRef
		resp, err := s.commit(ctx, reg)
		if err != nil {
			return nil, err
		}
		if s.audit != nil {
			_ = s.audit.UpdateIntentStatus(intentRef, models.IntentSucceeded)
		}
		s.logger.LogRegistration("CONFIRM", reg.ID, "payment confirmed, ticket issued")
		return resp, nil

	case models.IntentFailed:
		if err := s.cancelRegistration(ctx, reg, models.PaymentFailed); err != nil {
			if errors.Is(err, regdb.ErrVersionConflict) {
				// The other delivery path resolved it; report its outcome.
				return s.reloadOutcome(ctx, reg.ID)
			}
			return nil, fmt.Errorf("cancel after decline: %w", err)
		}
		if s.audit != nil {
			_ = s.audit.UpdateIntentStatus(intentRef, models.IntentFailed)
		}
		s.logger.LogRegistration("DECLINE", reg.ID, "payment declined, slot released")
		return nil, ErrPaymentDeclined

	default:
		return nil, ErrPaymentPending
	}
}

// commit performs the single Confirmed transition: exactly one caller wins
// the CAS, and only the winner promotes the ledger, persists the ticket and
// publishes. A loser that finds the row Confirmed reports idempotent success.
func (s *Service) commit(ctx context.Context, reg *models.Registration) (*models.RegisterResponse, error) {
	ticket, err := s.issuer.Issue(reg)
	if err != nil {
		return nil, fmt.Errorf("issue ticket: %w", err)
	}

	reg.Status = models.RegistrationConfirmed
	if reg.PaymentStatus == models.PaymentPending {
		reg.PaymentStatus = models.PaymentCompleted
	}
	reg.TicketNumber = ticket.TicketNumber
	reg.ConfirmedAt = time.Now().UTC()
	reg.PendingExpiresAt = time.Time{}

	if err := s.store.UpdateRegistrationCAS(ctx, reg); err != nil {
		if errors.Is(err, regdb.ErrVersionConflict) {
			return s.reloadOutcome(ctx, reg.ID)
		}
		return nil, fmt.Errorf("confirm registration: %w", err)
	}

	if err := s.ledger.Promote(ctx, reg.EventID); err != nil {
		// The registration is committed; a promote failure here is a ledger
		// anomaly to surface loudly, not roll back.
		s.logger.Error("LEDGER", fmt.Sprintf("promote failed for event %s: %v", reg.EventID, err))
	}

	if err := s.store.CreateTicket(ctx, ticket); err != nil {
		s.logger.Error("TICKET", fmt.Sprintf("failed to persist ticket %s: %v", ticket.TicketNumber, err))
	}

	if s.kafka != nil {
		if err := s.kafka.PublishRegistrationConfirmed(*reg); err != nil {
			s.logger.Warn("KAFKA", fmt.Sprintf("publish confirmed event: %v", err))
		}
	}

	return &models.RegisterResponse{
		Registration: reg,
		TicketNumber: ticket.TicketNumber,
	}, nil
}

// cancelRegistration moves a reserved registration to Cancelled and releases
// its capacity slot. The CAS guarantees release happens at most once.
func (s *Service) cancelRegistration(ctx context.Context, reg *models.Registration, paymentStatus models.PaymentStatus) error {
	reg.Status = models.RegistrationCancelled
	if reg.PaymentStatus == models.PaymentPending {
		reg.PaymentStatus = paymentStatus
	}
	reg.PendingExpiresAt = time.Time{}

	if err := s.store.UpdateRegistrationCAS(ctx, reg); err != nil {
		return err
	}

	if err := s.ledger.Release(ctx, reg.EventID); err != nil {
		s.logger.Error("LEDGER", fmt.Sprintf("release failed for event %s: %v", reg.EventID, err))
	}

	if s.kafka != nil {
		if err := s.kafka.PublishRegistrationCancelled(*reg); err != nil {
			s.logger.Warn("KAFKA", fmt.Sprintf("publish cancelled event: %v", err))
		}
	}

	return nil
}

// returnConcurrentDuplicate handles losing the insert race: another request
// for the same identity created the row first. Report theirs.
func (s *Service) returnConcurrentDuplicate(ctx context.Context, reg *models.Registration) (*models.RegisterResponse, error) {
	winner, err := s.store.GetActiveRegistration(ctx, reg.EventID, reg.IdentityID)
	if err != nil {
		return nil, ErrAlreadyRegistered
	}
	return &models.RegisterResponse{
		Registration:  winner,
		TicketNumber:  winner.TicketNumber,
		AlreadyExists: true,
	}, nil
}

// reloadOutcome re-reads a registration after losing a CAS race and reports
// the winner's result.
func (s *Service) reloadOutcome(ctx context.Context, registrationID string) (*models.RegisterResponse, error) {
	current, err := s.store.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("reload registration: %w", err)
	}
	switch current.Status {
	case models.RegistrationConfirmed:
		return &models.RegisterResponse{
			Registration:  current,
			TicketNumber:  current.TicketNumber,
			AlreadyExists: true,
		}, nil
	case models.RegistrationCancelled:
		return nil, ErrPaymentDeclined
	default:
		return nil, ErrPaymentPending
	}
}

// CreateIntentForEvent backs POST /events/{id}/create-payment-intent: it runs
// the first phase of a paid registration and returns the client secret. The
// amount is always the event's canonical price.
func (s *Service) CreateIntentForEvent(ctx context.Context, eventID, identityID string, req models.RegisterRequest) (*models.CreateIntentResponse, error) {
	req.PaymentIntentID = ""

	resp, err := s.Register(ctx, eventID, identityID, req)
	if err != nil {
		return nil, err
	}

	if resp.Registration.AmountCents == 0 {
		return nil, fmt.Errorf("%w: event is free, no payment intent required", ErrValidation)
	}
	if resp.ClientSecret == "" && resp.AlreadyExists {
		if resp.Registration.Status != models.RegistrationReserved || resp.Registration.PaymentIntentID == "" {
			return nil, ErrAlreadyRegistered
		}
		// A refresh mid-checkout: the secret is not stored server-side, so
		// recover the live attempt's intent from the processor instead of
		// locking the user out until the hold expires.
		intent, err := s.gateway.GetIntent(ctx, resp.Registration.PaymentIntentID)
		if err != nil {
			if errors.Is(err, gateway.ErrUnavailable) {
				return nil, ErrGatewayUnavailable
			}
			return nil, fmt.Errorf("recover payment intent: %w", err)
		}
		resp.ClientSecret = intent.ClientSecret
	}

	return &models.CreateIntentResponse{
		ClientSecret:    resp.ClientSecret,
		PaymentIntentID: resp.Registration.PaymentIntentID,
		AmountCents:     resp.Registration.AmountCents,
	}, nil
}

// GetRegistrationsForIdentity lists confirmed and pending registrations, used
// by clients to render "already registered" state.
func (s *Service) GetRegistrationsForIdentity(ctx context.Context, identityID string) ([]models.Registration, error) {
	return s.store.GetRegistrationsByIdentity(ctx, identityID)
}

// GetTicket returns the ticket for a confirmed registration. Stable: the
// same ticket comes back on every call.
func (s *Service) GetTicket(ctx context.Context, registrationID string) (*models.Ticket, error) {
	ticket, err := s.store.GetTicketByRegistration(ctx, registrationID)
	if err != nil {
		if errors.Is(err, regdb.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// CheckInTicket marks a ticket as used at the door. A second scan of the
// same ticket fails, which is the anti-passback property gate staff rely on.
func (s *Service) CheckInTicket(ctx context.Context, ticketNumber string) (*models.Ticket, error) {
	if err := s.store.MarkTicketCheckedIn(ctx, ticketNumber); err != nil {
		if errors.Is(err, regdb.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	ticket, err := s.store.GetTicketByNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	s.logger.Info("TICKET", fmt.Sprintf("ticket %s checked in", ticketNumber))
	return ticket, nil
}

func validateAttendee(req models.RegisterRequest) error {
	if req.AttendeeName == "" {
		return fmt.Errorf("%w: attendee_name is required", ErrValidation)
	}
	if req.AttendeeEmail == "" {
		return fmt.Errorf("%w: attendee_email is required", ErrValidation)
	}
	if !identity.ValidEmail(identity.NormalizeEmail(req.AttendeeEmail)) {
		return fmt.Errorf("%w: attendee_email is not a valid address", ErrValidation)
	}
	return nil
}
