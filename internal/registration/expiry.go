package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ms-registration/internal/models"
	regdb "ms-registration/internal/registration/db"
)

const sweepBatchSize = 100

// Sweeper reclaims capacity from pending registrations whose payment window
// has lapsed. It complements the check-on-read reclaim in Register: the sweep
// guarantees an abandoned hold never outlives the interval, check-on-read
// guarantees a hot event never waits for the sweep.
type Sweeper struct {
	service  *Service
	interval time.Duration
}

func NewSweeper(service *Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{service: service, interval: interval}
}

// Run sweeps on a fixed interval until the context is cancelled. Meant to be
// started as a goroutine from main.
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.service.logger.Info("SWEEP", fmt.Sprintf("pending-expiry sweeper started, interval %s", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.service.logger.Info("SWEEP", "pending-expiry sweeper stopped")
			return
		case <-ticker.C:
			if n, err := w.SweepOnce(ctx); err != nil {
				w.service.logger.Error("SWEEP", fmt.Sprintf("sweep failed: %v", err))
			} else if n > 0 {
				w.service.logger.Info("SWEEP", fmt.Sprintf("reclaimed %d expired pending registrations", n))
			}
		}
	}
}

// SweepOnce cancels one batch of expired pending registrations and returns
// how many it reclaimed. Losing a CAS race to a concurrent confirm or a
// check-on-read reclaim is expected and skipped.
func (w *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	expired, err := w.service.store.ListExpiredPending(ctx, time.Now().UTC(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list expired pending: %w", err)
	}

	reclaimed := 0
	for i := range expired {
		reg := expired[i]
		if err := w.service.cancelRegistration(ctx, &reg, models.PaymentFailed); err != nil {
			if errors.Is(err, regdb.ErrVersionConflict) {
				continue
			}
			w.service.logger.Error("SWEEP", fmt.Sprintf("failed to reclaim %s: %v", reg.ID, err))
			continue
		}
		reclaimed++
	}

	return reclaimed, nil
}
