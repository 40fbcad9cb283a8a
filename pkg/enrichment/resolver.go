// Package enrichment resolves the media, locations and agent profiles a page of listings refers to,
// one batched lookup per entity type.
package enrichment

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const (
	DefaultImageURL  = "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg"
	DefaultAgentName = "Agent"
)

type MediaSource interface {
	MediaByListingIDs(ctx context.Context, listingIDs []string) ([]models.MediaAsset, error)
}

type LocationSource interface {
	LocationsByIDs(ctx context.Context, ids []string) ([]models.Location, error)
}

type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) ([]models.AgentProfile, error)
}

// Lookup selects which batched lookups Resolve performs.
type Lookup uint8

const (
	LookupMedia Lookup = 1 << iota
	LookupLocations
	LookupProfiles

	LookupAll = LookupMedia | LookupLocations | LookupProfiles
)

type Resolver struct {
	media        MediaSource
	locations    LocationSource
	profiles     ProfileSource
	defaultImage string
	logger       ectologger.Logger
}

func NewResolver(media MediaSource, locations LocationSource, profiles ProfileSource, defaultImage string, logger ectologger.Logger) *Resolver {
	if defaultImage == "" {
		defaultImage = DefaultImageURL
	}
	return &Resolver{
		media:        media,
		locations:    locations,
		profiles:     profiles,
		defaultImage: defaultImage,
		logger:       logger,
	}
}

// Resolve runs every lookup for rows.
func (r *Resolver) Resolve(ctx context.Context, rows []models.ListingRow) *Batch {
	return r.ResolveWith(ctx, rows, LookupAll)
}

// ResolveWith issues at most one call per selected lookup, concurrently. A failed lookup is
// logged and leaves its table empty; it never fails the batch.
func (r *Resolver) ResolveWith(ctx context.Context, rows []models.ListingRow, lookups Lookup) *Batch {
	ctx, span := tracing.StartSpan(ctx, "enrichment.Resolver.Resolve")
	defer span.End()

	batch := &Batch{
		media:        map[string][]models.MediaAsset{},
		locations:    map[string]models.Location{},
		profiles:     map[string]models.AgentProfile{},
		defaultImage: r.defaultImage,
	}

	listingIDs, locationIDs, userIDs := distinctIDs(rows)

	var media []models.MediaAsset
	var locations []models.Location
	var profiles []models.AgentProfile
	var mediaErr, locationErr, profileErr error

	var g errgroup.Group
	if lookups&LookupMedia != 0 && len(listingIDs) > 0 {
		g.Go(func() error {
			media, mediaErr = r.media.MediaByListingIDs(ctx, listingIDs)
			return nil
		})
	}
	if lookups&LookupLocations != 0 && len(locationIDs) > 0 {
		g.Go(func() error {
			locations, locationErr = r.locations.LocationsByIDs(ctx, locationIDs)
			return nil
		})
	}
	if lookups&LookupProfiles != 0 && len(userIDs) > 0 {
		g.Go(func() error {
			profiles, profileErr = r.profiles.ProfilesByIDs(ctx, userIDs)
			return nil
		})
	}
	_ = g.Wait()

	if r.degraded(ctx, batch, "media", mediaErr, len(listingIDs)) {
		media = nil
	}
	if r.degraded(ctx, batch, "locations", locationErr, len(locationIDs)) {
		locations = nil
	}
	if r.degraded(ctx, batch, "profiles", profileErr, len(userIDs)) {
		profiles = nil
	}

	for _, asset := range media {
		batch.media[asset.ListingID] = append(batch.media[asset.ListingID], asset)
	}
	for id := range batch.media {
		orderMedia(batch.media[id])
	}
	for _, location := range locations {
		batch.locations[location.ID] = location
	}
	for _, profile := range profiles {
		batch.profiles[profile.ID] = profile
	}

	return batch
}

func (r *Resolver) degraded(ctx context.Context, batch *Batch, lookup string, err error, ids int) bool {
	if err == nil {
		return false
	}
	batch.Failures = append(batch.Failures, lookup)
	metrics.RecordEnrichmentFailure(lookup)
	r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
		"lookup": lookup,
		"ids":    ids,
	}).Error("Enrichment lookup failed, continuing with defaults")
	return true
}

// orderMedia puts primary assets first, then the rest in stored position order.
func orderMedia(assets []models.MediaAsset) {
	sort.SliceStable(assets, func(i, j int) bool {
		if assets[i].IsPrimary != assets[j].IsPrimary {
			return assets[i].IsPrimary
		}
		return assets[i].Position < assets[j].Position
	})
}

func distinctIDs(rows []models.ListingRow) (listingIDs, locationIDs, userIDs []string) {
	seenListings := map[string]struct{}{}
	seenLocations := map[string]struct{}{}
	seenUsers := map[string]struct{}{}

	add := func(seen map[string]struct{}, out []string, id string) []string {
		if id == "" {
			return out
		}
		if _, ok := seen[id]; ok {
			return out
		}
		seen[id] = struct{}{}
		return append(out, id)
	}

	for _, row := range rows {
		listingIDs = add(seenListings, listingIDs, row.ID)
		for _, id := range row.LocationIDs() {
			locationIDs = add(seenLocations, locationIDs, id)
		}
		userIDs = add(seenUsers, userIDs, row.UserID)
	}
	return listingIDs, locationIDs, userIDs
}
