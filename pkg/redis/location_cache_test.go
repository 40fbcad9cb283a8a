package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeStore struct {
	values   map[string]string
	readErr  error
	writeErr error
	writes   []map[string]string
	ttl      time.Duration
}

func (s *fakeStore) MGet(_ context.Context, keys ...string) ([]any, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	out := make([]any, len(keys))
	for i, key := range keys {
		if v, ok := s.values[key]; ok {
			out[i] = v
		}
	}
	return out, nil
}

func (s *fakeStore) SetMany(_ context.Context, values map[string]string, ttl time.Duration) error {
	s.writes = append(s.writes, values)
	s.ttl = ttl
	if s.writeErr != nil {
		return s.writeErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

type fakeSource struct {
	locations map[string]models.Location
	calls     [][]string
	err       error
}

func (s *fakeSource) LocationsByIDs(_ context.Context, ids []string) ([]models.Location, error) {
	s.calls = append(s.calls, ids)
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Location
	for _, id := range ids {
		if location, ok := s.locations[id]; ok {
			out = append(out, location)
		}
	}
	return out, nil
}

func newCache(store *fakeStore, source *fakeSource) *LocationCache {
	return NewLocationCache(store, source, 0, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func cached(t *testing.T, location models.Location) string {
	b, err := json.Marshal(location)
	require.NoError(t, err)
	return string(b)
}

func names(locations []models.Location) []string {
	out := make([]string, len(locations))
	for i, l := range locations {
		out[i] = l.Name
	}
	return out
}

func TestLocationCacheLoadsMissesOnce(t *testing.T) {
	store := &fakeStore{values: map[string]string{
		LocationKeyPrefix + "c1": cached(t, models.Location{ID: "c1", Name: "Bandung"}),
		LocationKeyPrefix + "c2": "{corrupt",
	}}
	source := &fakeSource{locations: map[string]models.Location{
		"c2": {ID: "c2", Name: "Bekasi"},
		"c3": {ID: "c3", Name: "Bogor"},
	}}
	cache := newCache(store, source)

	locations, err := cache.LocationsByIDs(context.Background(), []string{"c1", "c2", "c3"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bandung", "Bekasi", "Bogor"}, names(locations))
	require.Len(t, source.calls, 1)
	assert.Equal(t, []string{"c2", "c3"}, source.calls[0])
	assert.Equal(t, DefaultLocationTTL, store.ttl)
	assert.Contains(t, store.values, LocationKeyPrefix+"c3")

	_, err = cache.LocationsByIDs(context.Background(), []string{"c1", "c2", "c3"})
	require.NoError(t, err)
	assert.Len(t, source.calls, 1)
}

func TestLocationCacheFallsThroughOnReadError(t *testing.T) {
	store := &fakeStore{values: map[string]string{}, readErr: errors.New("redis: connection pool timeout")}
	source := &fakeSource{locations: map[string]models.Location{"p1": {ID: "p1", Name: "Banten"}}}

	locations, err := newCache(store, source).LocationsByIDs(context.Background(), []string{"p1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Banten"}, names(locations))
	assert.Empty(t, store.writes)
}

func TestLocationCacheIgnoresWriteError(t *testing.T) {
	store := &fakeStore{values: map[string]string{}, writeErr: errors.New("READONLY replica")}
	source := &fakeSource{locations: map[string]models.Location{"p1": {ID: "p1", Name: "Banten"}}}

	locations, err := newCache(store, source).LocationsByIDs(context.Background(), []string{"p1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Banten"}, names(locations))
	assert.Len(t, store.writes, 1)
}

func TestLocationCacheReturnsSourceError(t *testing.T) {
	store := &fakeStore{values: map[string]string{}}
	cause := errors.New("dial tcp: connection refused")

	_, err := newCache(store, &fakeSource{err: cause}).LocationsByIDs(context.Background(), []string{"p1"})

	assert.ErrorIs(t, err, cause)
}

func TestLocationCacheEmptyIDs(t *testing.T) {
	source := &fakeSource{}

	locations, err := newCache(&fakeStore{}, source).LocationsByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.NotNil(t, locations)
	assert.Empty(t, locations)
	assert.Empty(t, source.calls)
}

func TestNewClientDependency(t *testing.T) {
	client := NewClient(Config{Host: "localhost", Port: 6379}, ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))

	assert.Equal(t, "redis", client.GetName())
	assert.Empty(t, client.DependsOn())
	assert.NotNil(t, client.Redis())
	require.NoError(t, client.Stop(context.Background()))
}
