package registration

import "errors"

// Failure taxonomy for the registration pipeline. Handlers map these to HTTP
// reason codes; nothing else in the service invents ad-hoc error strings for
// these conditions.
var (
	// ErrEventFull: the capacity ledger refused the reservation. Terminal,
	// no retry path.
	ErrEventFull = errors.New("event is full")

	// ErrRegistrationClosed: the event is not live/active. Terminal.
	ErrRegistrationClosed = errors.New("registration is not open for this event")

	// ErrAlreadyRegistered: the identity already holds a confirmed
	// registration. Treated as success-with-notice by handlers; the existing
	// ticket is returned.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrGatewayUnavailable: the payment processor timed out or is down.
	// Retryable by the caller.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrPaymentDeclined: the processor explicitly rejected the charge. The
	// capacity reservation has been released; a fresh attempt needs new
	// payment details.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentPending: confirmation was requested but the intent has not
	// settled yet on the processor side.
	ErrPaymentPending = errors.New("payment not completed yet")

	// ErrValidation: required attendee fields missing or malformed.
	ErrValidation = errors.New("invalid registration request")

	// ErrEventNotFound: unknown event id.
	ErrEventNotFound = errors.New("event not found")

	// ErrRegistrationNotFound: no registration matches the given reference.
	ErrRegistrationNotFound = errors.New("registration not found")
)
