package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/enrichment"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	LocationKeyPrefix  = "clover:location:"
	DefaultLocationTTL = 10 * time.Minute
)

// Store is the subset of Client the location cache needs.
type Store interface {
	MGet(ctx context.Context, keys ...string) ([]any, error)
	SetMany(ctx context.Context, values map[string]string, expiration time.Duration) error
}

// LocationCache serves location lookups from Redis and loads misses from source in one call.
// Cache errors fall through to source.
type LocationCache struct {
	store  Store
	source enrichment.LocationSource
	ttl    time.Duration
	logger ectologger.Logger
}

func NewLocationCache(store Store, source enrichment.LocationSource, ttl time.Duration, logger ectologger.Logger) *LocationCache {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationCache{
		store:  store,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *LocationCache) LocationsByIDs(ctx context.Context, ids []string) ([]models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "redis.LocationCache.LocationsByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []models.Location{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LocationKeyPrefix + id
	}

	cached, err := c.store.MGet(ctx, keys...)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Location cache read failed, loading from source")
		metrics.RecordLocationCache("error", len(ids))
		return c.source.LocationsByIDs(ctx, ids)
	}

	locations := make([]models.Location, 0, len(ids))
	var missing []string
	for i, id := range ids {
		location, ok := decodeLocation(cached, i)
		if !ok {
			missing = append(missing, id)
			continue
		}
		locations = append(locations, location)
	}
	metrics.RecordLocationCache("hit", len(locations))
	metrics.RecordLocationCache("miss", len(missing))

	if len(missing) == 0 {
		return locations, nil
	}

	loaded, err := c.source.LocationsByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(loaded))
	for _, location := range loaded {
		b, err := json.Marshal(location)
		if err != nil {
			continue
		}
		values[LocationKeyPrefix+location.ID] = string(b)
	}
	if err := c.store.SetMany(ctx, values, c.ttl); err != nil {
		c.logger.WithContext(ctx).WithError(err).WithField("locations", len(values)).Warn("Location cache write failed")
		metrics.RecordLocationCache("error", len(values))
	}

	return append(locations, loaded...), nil
}

func decodeLocation(cached []any, i int) (models.Location, bool) {
	if i >= len(cached) {
		return models.Location{}, false
	}
	raw, ok := cached[i].(string)
	if !ok {
		return models.Location{}, false
	}
	var location models.Location
	if err := json.Unmarshal([]byte(raw), &location); err != nil {
		return models.Location{}, false
	}
	return location, true
}
