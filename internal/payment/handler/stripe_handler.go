package handlers

import (
	"context"
	"net/http"
	"strconv"

	"ms-registration/internal/logger"
	"ms-registration/internal/models"
	"ms-registration/internal/payment/gateway"
	"ms-registration/internal/payment/storage"
	"ms-registration/internal/utils"

	"github.com/gin-gonic/gin"
)

// RegistrationService is the slice of the orchestrator the payment surface
// needs: intent verification hooks back into the same confirmation path the
// registration API uses.
type RegistrationService interface {
	ConfirmByIntent(ctx context.Context, intentRef string) (*models.RegisterResponse, error)
}

// StripeHandler exposes the payment-facing endpoints: intent status lookup,
// client-side confirmation and the reconciliation views over the intent
// audit trail.
type StripeHandler struct {
	gateway      gateway.Gateway
	paymentStore storage.Store
	registration RegistrationService
	logger       *logger.Logger
}

func NewStripeHandler(gw gateway.Gateway, paymentStore storage.Store, registration RegistrationService, logger *logger.Logger) *StripeHandler {
	return &StripeHandler{
		gateway:      gw,
		paymentStore: paymentStore,
		registration: registration,
		logger:       logger,
	}
}

// GetIntentStatus reports the processor's view of one intent. The client
// polls this while its payment sheet is open.
func (h *StripeHandler) GetIntentStatus(c *gin.Context) {
	intentID := c.Param("intentId")
	if intentID == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request", "intent id is required"))
		return
	}

	status, err := h.gateway.GetStatus(c.Request.Context(), intentID)
	if err != nil {
		h.logger.Error("PAYMENT", "Failed to fetch intent status: "+err.Error())
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Failed to fetch payment status", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment status retrieved", gin.H{
		"payment_intent_id": intentID,
		"status":            status,
	}))
}

// ConfirmPayment finishes a registration after the client completed the
// charge. Converges with the webhook path; whichever runs second is a no-op.
func (h *StripeHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	resp, err := h.registration.ConfirmByIntent(c.Request.Context(), req.PaymentIntentID)
	if err != nil {
		h.logger.Warn("PAYMENT", "Confirmation failed for intent "+req.PaymentIntentID+": "+err.Error())
		c.JSON(http.StatusConflict, utils.ErrorResponse("Payment confirmation failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment confirmed", resp))
}

// GetIntent returns one audit row.
func (h *StripeHandler) GetIntent(c *gin.Context) {
	intentID := c.Param("intentId")

	record, err := h.paymentStore.GetIntent(intentID)
	if err != nil {
		if err == storage.ErrIntentNotFound {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Payment intent not found", intentID))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve payment intent", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intent retrieved", record))
}

// ListIntentsByEvent returns the intent audit trail for one event, used by
// reconciliation tooling to cross-check registrations against charges.
func (h *StripeHandler) ListIntentsByEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	records, err := h.paymentStore.ListIntentsByEvent(eventID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list payment intents", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payment intents retrieved", gin.H{
		"event_id": eventID,
		"count":    len(records),
		"intents":  records,
	}))
}

// Routes mounts the payment surface on a gin engine. The engine itself is
// mounted under the main chi router.
func (h *StripeHandler) Routes(r *gin.Engine) {
	api := r.Group("/api/v1/payments")
	{
		api.GET("/intents/:intentId/status", h.GetIntentStatus)
		api.GET("/intents/:intentId", h.GetIntent)
		api.POST("/confirm", h.ConfirmPayment)
		api.GET("/events/:eventId/intents", h.ListIntentsByEvent)
	}
}
