package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// base32 without lookalike characters (0/O, 1/I/L)
const ticketAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// GenerateTicketNumber returns a globally unique, unpredictable ticket
// identifier of the form TKT-XXXX-XXXX-XXXX. Twelve characters over a
// 31-symbol alphabet give ~59 bits of entropy, so collisions at tens of
// thousands of tickets are negligible.
func GenerateTicketNumber() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// timestamp-based id just in case
		return fmt.Sprintf("TKT-%d", time.Now().UnixNano())
	}

	out := make([]byte, 0, 14)
	for i, b := range buf {
		if i == 4 || i == 8 {
			out = append(out, '-')
		}
		out = append(out, ticketAlphabet[int(b)%len(ticketAlphabet)])
	}
	return "TKT-" + string(out)
}

// GenerateIntentIdempotencyKey returns the idempotency key sent with a
// CreateIntent call so a retried network request cannot create two charges.
func GenerateIntentIdempotencyKey(registrationID string) string {
	return fmt.Sprintf("reg-intent-%s", registrationID)
}
