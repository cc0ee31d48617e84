package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"log"

	"github.com/go-redis/redis/v8"
)

// Redis guards a registration attempt with a short-lived lock keyed on
// (event, identity). It bounds concurrent create-intent calls for the same
// attempt; correctness does not depend on it — the partial unique index and
// the ledger's conditional updates do — it just keeps the duplicate work out
// of the payment processor.
type Redis struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		Client: client,
		Logger: log.Default(),
	}
}

// getAttemptLockDuration returns the lock TTL from the environment or the
// default of 2 minutes. The TTL only needs to outlive one create-intent call.
func (r *Redis) getAttemptLockDuration() time.Duration {
	defaultDuration := 2 * time.Minute

	lockTTLStr := os.Getenv("ATTEMPT_LOCK_TTL_SECONDS")
	if lockTTLStr == "" {
		return defaultDuration
	}

	lockTTLSec, err := strconv.Atoi(lockTTLStr)
	if err != nil {
		r.Logger.Println("REDIS: invalid ATTEMPT_LOCK_TTL_SECONDS value '" + lockTTLStr + "', using default 2 minutes")
		return defaultDuration
	}

	return time.Duration(lockTTLSec) * time.Second
}

func attemptKey(eventID, identityID string) string {
	return fmt.Sprintf("reg_lock:%s:%s", eventID, identityID)
}

// LockAttempt takes the lock for one (event, identity) attempt. The owner
// token lets only the holder release it.
func (r *Redis) LockAttempt(ctx context.Context, eventID, identityID, owner string) (bool, error) {
	return r.Client.SetNX(ctx, attemptKey(eventID, identityID), owner, r.getAttemptLockDuration()).Result()
}

// UnlockAttempt releases the lock if the caller still owns it. A lock that
// expired and was re-taken by someone else is left alone.
func (r *Redis) UnlockAttempt(ctx context.Context, eventID, identityID, owner string) error {
	key := attemptKey(eventID, identityID)

	val, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == owner {
		_, err := r.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
