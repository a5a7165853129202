package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/civic-kit/complaint-service/internal/domain"
	"github.com/civic-kit/complaint-service/internal/persistence"
)

const feedKey = "tickets:feed"

// TicketFeed caches the unfiltered public ticket list in Redis. All methods
// are best-effort: a nil or unreachable Redis degrades to cache misses, and
// cache failures never fail the request.
type TicketFeed struct {
	redis  *persistence.Redis
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketFeed constructs the cache.
func NewTicketFeed(redis *persistence.Redis, ttl time.Duration, logger *zap.Logger) *TicketFeed {
	return &TicketFeed{redis: redis, ttl: ttl, logger: logger}
}

// Get returns the cached feed and whether it was present.
func (f *TicketFeed) Get(ctx context.Context) ([]domain.Ticket, bool) {
	if f == nil || f.redis == nil || f.redis.Client == nil {
		return nil, false
	}
	raw, err := f.redis.Client.Get(ctx, feedKey).Bytes()
	if err != nil {
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		f.logger.Warn("corrupt feed cache entry", zap.Error(err))
		return nil, false
	}
	return tickets, true
}

// Set stores the feed with the configured TTL.
func (f *TicketFeed) Set(ctx context.Context, tickets []domain.Ticket) {
	if f == nil || f.redis == nil || f.redis.Client == nil || f.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := f.redis.Client.Set(ctx, feedKey, raw, f.ttl).Err(); err != nil {
		f.logger.Warn("failed to cache ticket feed", zap.Error(err))
	}
}

// Invalidate drops the cached feed after a ticket mutation.
func (f *TicketFeed) Invalidate(ctx context.Context) {
	if f == nil || f.redis == nil || f.redis.Client == nil {
		return
	}
	if err := f.redis.Client.Del(ctx, feedKey).Err(); err != nil {
		f.logger.Warn("failed to invalidate ticket feed", zap.Error(err))
	}
}
