package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"volunteer-backend/internal/cache"
)

const ResetOutboxKey = "volunteer:outbox:password_reset"

// RedisOutbox queues notices on a Redis list for a mail worker to drain.
type RedisOutbox struct {
	cache cache.Client
}

func NewRedisOutbox(c cache.Client) *RedisOutbox {
	return &RedisOutbox{cache: c}
}

func (o *RedisOutbox) PasswordReset(ctx context.Context, notice ResetNotice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	ttl := time.Until(notice.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("notice %s already expired", notice.ID)
	}
	return o.cache.PushWithTTL(ctx, ResetOutboxKey, payload, ttl)
}
