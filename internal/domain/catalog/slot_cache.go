package catalog

import (
	"context"
	"fmt"
	"time"

	"beautybook/internal/domain"
	"beautybook/internal/pkg/cache"
	"beautybook/internal/pkg/logger"
	"beautybook/internal/pkg/metrics"
)

const slotsNamespace = "slots"

// SlotCache keeps availability listings keyed by filter. Every slot mutation bumps
// the namespace version, so stale keys are simply never read again.
type SlotCache struct {
	store   cache.Cache
	ttl     time.Duration
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewSlotCache(store cache.Cache, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *SlotCache {
	return &SlotCache{store: store, ttl: ttl, log: log, metrics: m}
}

func (c *SlotCache) key(ctx context.Context, f SlotFilter) (string, error) {
	ver, err := c.store.Version(ctx, slotsNamespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:salon=%d:date=%s:specialist=%d", slotsNamespace, ver, f.SalonID, f.Date, f.SpecialistID), nil
}

// Get returns the cached listing for f and the versioned key it was looked up under.
// Cache errors count as a miss. key is empty when the version could not be read.
func (c *SlotCache) Get(ctx context.Context, f SlotFilter) (slots []domain.Slot, key string, ok bool) {
	if c == nil {
		return nil, "", false
	}
	key, err := c.key(ctx, f)
	if err != nil {
		c.log.Warn("slot cache version lookup failed", "error", err.Error())
		return nil, "", false
	}

	ok, err = c.store.GetJSON(ctx, key, &slots)
	if err != nil {
		c.log.Warn("slot cache read failed", "key", key, "error", err.Error())
		ok = false
	}
	c.metrics.ObserveSlotCache(ok)
	return slots, key, ok
}

// Set stores slots under the key returned by Get. A Bump between the two leaves
// the entry under the old version, where nobody reads it.
func (c *SlotCache) Set(ctx context.Context, key string, slots []domain.Slot) {
	if c == nil || key == "" {
		return
	}
	if err := c.store.SetJSON(ctx, key, slots, c.ttl); err != nil {
		c.log.Warn("slot cache write failed", "key", key, "error", err.Error())
	}
}

// Invalidate drops every cached listing.
func (c *SlotCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.store.Bump(ctx, slotsNamespace); err != nil {
		c.log.Warn("slot cache invalidation failed", "error", err.Error())
	}
}
