// Package tickets mints the unique, user-facing proof of a confirmed
// registration: a ticket number plus a QR payload carrying a signed check-in
// token.
package tickets

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"ms-registration/internal/models"
	"ms-registration/internal/utils"

	"github.com/skip2/go-qrcode"
)

// Issuer generates tickets. The secret signs the QR payload so a scanned
// token can be verified at the door without a database round trip.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &Issuer{secret: hashed[:]}
}

type qrPayload struct {
	TicketNumber   string `json:"ticket_number"`
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	IssuedAt       int64  `json:"issued_at"`
	Signature      string `json:"sig"`
}

// Issue mints a ticket for a registration that has just reached Confirmed.
// Ticket numbers are unique across all events and carry no sequential
// information, so they neither collide nor leak registration counts.
func (i *Issuer) Issue(reg *models.Registration) (*models.Ticket, error) {
	data, payload, err := i.buildPayload(reg)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return &models.Ticket{
		TicketNumber:   payload.TicketNumber,
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		HolderName:     reg.AttendeeName,
		QRCode:         png,
		IssuedAt:       utils.UnixTimeToTime(payload.IssuedAt),
	}, nil
}

// SignedPayload returns the JSON a ticket's QR code would carry, signed.
// Check-in tooling uses it to exercise Verify without decoding QR images.
func (i *Issuer) SignedPayload(reg *models.Registration) ([]byte, error) {
	data, _, err := i.buildPayload(reg)
	return data, err
}

func (i *Issuer) buildPayload(reg *models.Registration) ([]byte, qrPayload, error) {
	payload := qrPayload{
		TicketNumber:   utils.GenerateTicketNumber(),
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		IssuedAt:       time.Now().Unix(),
	}
	payload.Signature = i.sign(payload)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, qrPayload{}, fmt.Errorf("marshal qr payload: %w", err)
	}
	return data, payload, nil
}

// Verify checks a scanned payload's signature.
func (i *Issuer) Verify(payloadJSON []byte) (bool, error) {
	var payload qrPayload
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return false, err
	}

	claimed := payload.Signature
	payload.Signature = ""
	return hmac.Equal([]byte(claimed), []byte(i.sign(payload))), nil
}

func (i *Issuer) sign(payload qrPayload) string {
	mac := hmac.New(sha256.New, i.secret)
	fmt.Fprintf(mac, "%s|%s|%s|%d",
		payload.TicketNumber, payload.RegistrationID, payload.EventID, payload.IssuedAt)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
