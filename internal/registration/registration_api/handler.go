package registration_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-registration/internal/auth"
	"ms-registration/internal/identity"
	"ms-registration/internal/logger"
	"ms-registration/internal/models"
	"ms-registration/internal/registration"
	regdb "ms-registration/internal/registration/db"
	"ms-registration/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	Service  *registration.Service
	Identity *identity.Resolver
	Logger   *logger.Logger
}

func NewHandler(service *registration.Service, resolver *identity.Resolver) *Handler {
	return &Handler{
		Service:  service,
		Identity: resolver,
		Logger:   logger.NewLogger(),
	}
}

// Register handles POST /api/v1/events/{eventId}/register.
// Authenticated callers register under their user ID; anonymous callers are
// resolved to a deterministic guest identity from the attendee email, so a
// double-submit collapses onto one registration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("Register: eventId=%s", eventID))

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: failed to decode request body: %v", err))
		writeFailure(w, http.StatusBadRequest, "Invalid request body", "validation_failed")
		return
	}

	identityID, err := h.Identity.Resolve(userIDFromContext(r), req.AttendeeEmail)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: identity resolution failed: %v", err))
		writeFailure(w, http.StatusBadRequest, "An email address is required to register", "validation_failed")
		return
	}

	resp, err := h.Service.Register(r.Context(), eventID, identityID, req)
	if err != nil {
		h.writeServiceError(w, "Register", err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyExists {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Registration processed", resp)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Register: failed to encode response: %v", err))
		return
	}
	h.Logger.Info("API", fmt.Sprintf("Register: response sent for event %s", eventID))
}

// CreatePaymentIntent handles POST /api/v1/events/{eventId}/create-payment-intent.
// The amount is always taken from the event catalog; any amount in the request
// body is advisory only.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	h.Logger.Info("API", fmt.Sprintf("CreatePaymentIntent: eventId=%s", eventID))

	var req models.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePaymentIntent: failed to decode request body: %v", err))
		writeFailure(w, http.StatusBadRequest, "Invalid request body", "validation_failed")
		return
	}

	userID := userIDFromContext(r)
	if userID == "" {
		userID = req.UserID
	}

	identityID, err := h.Identity.Resolve(userID, req.UserEmail)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "An email address is required to register", "validation_failed")
		return
	}

	// req.Amount is deliberately ignored: the charge amount always comes
	// from the event's canonical price.
	resp, err := h.Service.CreateIntentForEvent(r.Context(), eventID, identityID, models.RegisterRequest{
		AttendeeName:  req.UserName,
		AttendeeEmail: req.UserEmail,
	})
	if err != nil {
		h.writeServiceError(w, "CreatePaymentIntent", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Payment intent created", resp)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreatePaymentIntent: failed to encode response: %v", err))
	}
}

// ConfirmRegistration handles POST /api/v1/registrations/confirm. The client
// calls this after completing the charge; the webhook may already have won.
func (h *Handler) ConfirmRegistration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentIntentID string `json:"payment_intent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PaymentIntentID == "" {
		writeFailure(w, http.StatusBadRequest, "payment_intent_id is required", "validation_failed")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("ConfirmRegistration: intent=%s", req.PaymentIntentID))

	resp, err := h.Service.ConfirmByIntent(r.Context(), req.PaymentIntentID)
	if err != nil {
		h.writeServiceError(w, "ConfirmRegistration", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Registration confirmed", resp)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ConfirmRegistration: failed to encode response: %v", err))
	}
}

// GetRegistrationsByIdentity handles GET /api/v1/events/user/{identityId}/registrations.
func (h *Handler) GetRegistrationsByIdentity(w http.ResponseWriter, r *http.Request) {
	identityID := chi.URLParam(r, "identityId")
	h.Logger.Info("API", fmt.Sprintf("GetRegistrationsByIdentity: identityId=%s", identityID))

	if identityID == "" {
		writeFailure(w, http.StatusBadRequest, "Identity ID is required", "validation_failed")
		return
	}

	// Registrations carry attendee contact details; a caller may only list
	// their own.
	if caller := userIDFromContext(r); caller != identityID {
		writeFailure(w, http.StatusForbidden, "You can only view your own registrations", "forbidden")
		return
	}

	regs, err := h.Service.GetRegistrationsForIdentity(r.Context(), identityID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRegistrationsByIdentity: %v", err))
		writeFailure(w, http.StatusInternalServerError, "Failed to retrieve registrations", "internal_error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Registrations retrieved", regs)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetRegistrationsByIdentity: failed to encode response: %v", err))
	}
}

// GetTicket handles GET /api/v1/registrations/{registrationId}/ticket.
func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	registrationID := chi.URLParam(r, "registrationId")
	h.Logger.Info("API", fmt.Sprintf("GetTicket: registrationId=%s", registrationID))

	ticket, err := h.Service.GetTicket(r.Context(), registrationID)
	if err != nil {
		h.writeServiceError(w, "GetTicket", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Ticket retrieved", ticket)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetTicket: failed to encode response: %v", err))
	}
}

// CheckInTicket handles POST /api/v1/tickets/{ticketNumber}/check-in.
// A second scan of the same ticket is rejected.
func (h *Handler) CheckInTicket(w http.ResponseWriter, r *http.Request) {
	ticketNumber := chi.URLParam(r, "ticketNumber")
	h.Logger.Info("API", fmt.Sprintf("CheckInTicket: ticket=%s", ticketNumber))

	ticket, err := h.Service.CheckInTicket(r.Context(), ticketNumber)
	if err != nil {
		if errors.Is(err, regdb.ErrAlreadyCheckedIn) {
			writeFailure(w, http.StatusConflict, "Ticket has already been checked in", "already_checked_in")
			return
		}
		h.writeServiceError(w, "CheckInTicket", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(utils.SuccessResponse("Ticket checked in", ticket)); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CheckInTicket: failed to encode response: %v", err))
	}
}

// HandleWebhook handles POST /api/v1/webhooks/stripe.
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.HandleWebhook(r); err != nil {
		var whErr *registration.WebhookError
		if errors.As(err, &whErr) {
			h.Logger.Error("API", fmt.Sprintf("HandleWebhook [%s]: %s", whErr.Category, whErr.InternalError))
			writeFailure(w, whErr.StatusCode, whErr.PublicError, whErr.Category)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("HandleWebhook: %v", err))
		writeFailure(w, http.StatusInternalServerError, "Webhook processing failed", "internal_error")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// writeServiceError maps the orchestrator's error taxonomy onto HTTP. Each
// reason code is stable so clients can branch on it.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	h.Logger.Warn("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, registration.ErrEventFull):
		writeFailure(w, http.StatusConflict, "Event is at capacity", "event_full")
	case errors.Is(err, registration.ErrRegistrationClosed):
		writeFailure(w, http.StatusConflict, "Registration is closed for this event", "registration_closed")
	case errors.Is(err, registration.ErrAlreadyRegistered):
		writeFailure(w, http.StatusConflict, "Already registered for this event", "already_registered")
	case errors.Is(err, registration.ErrPaymentDeclined):
		writeFailure(w, http.StatusPaymentRequired, "Payment was declined", "payment_declined")
	case errors.Is(err, registration.ErrPaymentPending):
		writeFailure(w, http.StatusConflict, "Payment has not completed yet", "payment_pending")
	case errors.Is(err, registration.ErrGatewayUnavailable):
		writeFailure(w, http.StatusServiceUnavailable, "Payment service is temporarily unavailable, please retry", "gateway_unavailable")
	case errors.Is(err, registration.ErrEventNotFound):
		writeFailure(w, http.StatusNotFound, "Event not found", "event_not_found")
	case errors.Is(err, registration.ErrRegistrationNotFound):
		writeFailure(w, http.StatusNotFound, "Registration not found", "registration_not_found")
	case errors.Is(err, registration.ErrValidation):
		writeFailure(w, http.StatusBadRequest, err.Error(), "validation_failed")
	default:
		writeFailure(w, http.StatusInternalServerError, "Internal server error", "internal_error")
	}
}

func writeFailure(w http.ResponseWriter, status int, message, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(utils.FailureResponse(message, reason))
}

// userIDFromContext pulls the authenticated user ID set by the auth
// middleware; empty means anonymous.
func userIDFromContext(r *http.Request) string {
	return auth.UserID(r.Context())
}
