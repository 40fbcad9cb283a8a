package main

import (
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/config"
	listingrepo "github.com/Ramsey-B/clover/internal/repositories/listing"
	"github.com/Ramsey-B/clover/internal/repositories/location"
	"github.com/Ramsey-B/clover/internal/repositories/lookup"
	"github.com/Ramsey-B/clover/internal/repositories/plan"
	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/enrichment"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/listing"
	"github.com/Ramsey-B/clover/pkg/redis"
)

type app struct {
	service   *listing.Service
	locations *location.Repository
}

// wire builds the listing pipeline over an open database. redisClient and producer are optional.
func wire(cfg *config.Config, db database.DB, redisClient *redis.Client, producer *events.Producer, logger ectologger.Logger) *app {
	locations := location.NewRepository(db, logger)
	lookups := lookup.NewRepository(db, logger)

	var locationSource enrichment.LocationSource = lookups
	if redisClient != nil {
		locationSource = redis.NewLocationCache(redisClient, lookups, cfg.LocationCacheTTL, logger)
	}

	resolver := enrichment.NewResolver(lookups, locationSource, lookups, cfg.DefaultImageURL, logger)

	opts := []listing.Option{listing.WithMergeConcurrency(cfg.MergeConcurrency)}
	if producer != nil {
		opts = append(opts, listing.WithEvents(events.NewEmitter(producer)))
	}

	service := listing.NewService(
		listingrepo.NewRepository(db, locations, logger),
		resolver,
		plan.NewRepository(db, logger),
		logger,
		opts...,
	)

	return &app{
		service:   service,
		locations: locations,
	}
}
