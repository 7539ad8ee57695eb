package redisstore

import (
	"context"
	"errors"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"go.uber.org/zap"
)

func (s CooldownStore) Arm(ctx context.Context, userID string, action familiar.CareAction, d time.Duration) error {
	return s.retry(ctx, "cooldown.arm", func() error {
		return s.rdb.Set(ctx, cooldownKey(userID, string(action)), "1", d).Err()
	})
}

// Remaining reports the cooldown TTL. A degraded read counts as "no
// cooldown": letting a care action through early is cheaper than blocking
// care while the store is down.
func (s CooldownStore) Remaining(ctx context.Context, userID string, action familiar.CareAction) (time.Duration, error) {
	var ttl time.Duration
	err := s.retry(ctx, "cooldown.remaining", func() error {
		var opErr error
		ttl, opErr = s.rdb.TTL(ctx, cooldownKey(userID, string(action))).Result()
		return opErr
	})
	if err != nil {
		if errors.Is(err, ports.ErrStoreUnavailable) {
			s.log.Warn("cooldown read degraded to inactive",
				zap.String("user_id", userID),
				zap.String("action", string(action)),
			)
			return 0, nil
		}
		return 0, err
	}
	if ttl < 0 {
		// -2 key absent, -1 no expiry; either way no active cooldown.
		return 0, nil
	}
	return ttl, nil
}
