// Package feecache keeps the COD fee schedule in Redis. Every order and quote
// reads the schedule, while admins change it rarely.
package feecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"laundry/internal/core/domain/model/fee"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultKey = "laundry:fee-schedule:v1"
	DefaultTTL = 5 * time.Minute
)

type cachedTier struct {
	MinKm  decimal.Decimal `json:"minKm"`
	MaxKm  decimal.Decimal `json:"maxKm"`
	Fee    decimal.Decimal `json:"fee"`
	Active bool            `json:"active"`
}

type cachedSchedule struct {
	Tiers      []cachedTier    `json:"tiers"`
	DefaultFee decimal.Decimal `json:"defaultFee"`
}

// Cache is a read-through decorator of ports.FeeScheduleRepository. Redis
// failures are logged and the schedule is read from the wrapped repository,
// so an unavailable cache never fails pricing.
type Cache struct {
	client redis.UniversalClient
	ttl    time.Duration
	key    string
	logger logrus.FieldLogger
}

func New(client redis.UniversalClient, ttl time.Duration, logger logrus.FieldLogger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		key:    DefaultKey,
		logger: logger.WithField("component", "fee_cache"),
	}
}

// Decorate wraps next with the cache. Its signature matches the unit of
// work's fee schedule decorator option.
func (c *Cache) Decorate(next ports.FeeScheduleRepository) ports.FeeScheduleRepository {
	return &repository{cache: c, next: next}
}

func (c *Cache) load(ctx context.Context) (fee.Schedule, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fee.Schedule{}, false
	}
	if err != nil {
		c.logger.WithError(err).Warn("fee schedule cache read failed")
		return fee.Schedule{}, false
	}

	var cached cachedSchedule
	if err = json.Unmarshal(raw, &cached); err != nil {
		c.logger.WithError(err).Warn("fee schedule cache entry is corrupt")
		return fee.Schedule{}, false
	}

	schedule, err := cached.toSchedule()
	if err != nil {
		c.logger.WithError(err).Warn("fee schedule cache entry is invalid")
		return fee.Schedule{}, false
	}
	return schedule, true
}

func (c *Cache) store(ctx context.Context, schedule fee.Schedule) {
	raw, err := json.Marshal(fromSchedule(schedule))
	if err != nil {
		c.logger.WithError(err).Warn("fee schedule could not be encoded")
		return
	}
	if err = c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("fee schedule cache write failed")
	}
}

type repository struct {
	cache *Cache
	next  ports.FeeScheduleRepository
}

func (r *repository) Get(ctx context.Context) (fee.Schedule, error) {
	if schedule, ok := r.cache.load(ctx); ok {
		return schedule, nil
	}

	schedule, err := r.next.Get(ctx)
	if err != nil {
		return fee.Schedule{}, err
	}
	r.cache.store(ctx, schedule)
	return schedule, nil
}

func fromSchedule(s fee.Schedule) cachedSchedule {
	tiers := make([]cachedTier, 0, len(s.Tiers()))
	for _, t := range s.Tiers() {
		tiers = append(tiers, cachedTier{
			MinKm:  t.MinKm(),
			MaxKm:  t.MaxKm(),
			Fee:    t.Fee().Decimal(),
			Active: t.IsActive(),
		})
	}
	return cachedSchedule{Tiers: tiers, DefaultFee: s.DefaultFee().Decimal()}
}

func (c cachedSchedule) toSchedule() (fee.Schedule, error) {
	tiers := make([]fee.Tier, 0, len(c.Tiers))
	for _, ct := range c.Tiers {
		amount, err := kernel.NewMoney(ct.Fee)
		if err != nil {
			return fee.Schedule{}, err
		}
		t, err := fee.NewTier(ct.MinKm, ct.MaxKm, amount, ct.Active)
		if err != nil {
			return fee.Schedule{}, err
		}
		tiers = append(tiers, t)
	}

	defaultFee, err := kernel.NewMoney(c.DefaultFee)
	if err != nil {
		return fee.Schedule{}, err
	}
	return fee.NewSchedule(tiers, defaultFee), nil
}
