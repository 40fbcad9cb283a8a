// Package lookup reads the entities a listing refers to by id, one batched IN query per call.
package lookup

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// MediaByListingIDs returns media for the listings, primary first then in upload order.
func (r *Repository) MediaByListingIDs(ctx context.Context, listingIDs []string) ([]models.MediaAsset, error) {
	ctx, span := tracing.StartSpan(ctx, "LookupRepository.MediaByListingIDs")
	defer span.End()

	if len(listingIDs) == 0 {
		return []models.MediaAsset{}, nil
	}

	sb := mediaStruct.SelectFrom(mediaTable)
	sb.Where(sb.In("listing_id", sqlbuilder.Flatten(listingIDs)...))
	sb.OrderBy("listing_id ASC", "is_primary DESC", "position ASC", "created_at ASC", "id ASC")
	stmt, args := sb.Build()

	r.logger.WithContext(ctx).WithField("listings", len(listingIDs)).Debug("Loading listing media")

	var rows []MediaRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "loading listing media")
	}
	return ToMedia(rows), nil
}

func (r *Repository) LocationsByIDs(ctx context.Context, ids []string) ([]models.Location, error) {
	ctx, span := tracing.StartSpan(ctx, "LookupRepository.LocationsByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []models.Location{}, nil
	}

	sb := locationStruct.SelectFrom(locationsTable)
	sb.Where(sb.In("id", sqlbuilder.Flatten(ids)...))
	stmt, args := sb.Build()

	r.logger.WithContext(ctx).WithField("locations", len(ids)).Debug("Loading locations")

	var rows []LocationRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "loading locations")
	}
	return ToLocations(rows), nil
}

func (r *Repository) ProfilesByIDs(ctx context.Context, ids []string) ([]models.AgentProfile, error) {
	ctx, span := tracing.StartSpan(ctx, "LookupRepository.ProfilesByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []models.AgentProfile{}, nil
	}

	sb := profileStruct.SelectFrom(profilesTable)
	sb.Where(sb.In("id", sqlbuilder.Flatten(ids)...))
	stmt, args := sb.Build()

	r.logger.WithContext(ctx).WithField("profiles", len(ids)).Debug("Loading agent profiles")

	var rows []ProfileRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "loading agent profiles")
	}
	return ToProfiles(rows), nil
}
