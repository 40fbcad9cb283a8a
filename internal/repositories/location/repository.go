// Package location maintains the per-location property counts.
package location

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const locationsTable = "locations"

// tierColumns maps each location tier to the listings column referencing it.
var tierColumns = []struct {
	tier   models.LocationType
	column string
}{
	{models.LocationTypeProvince, "province_id"},
	{models.LocationTypeCity, "city_id"},
	{models.LocationTypeDistrict, "district_id"},
}

var countedStatuses = pq.StringArray{
	string(models.ListingStatusActive),
	string(models.ListingStatusPending),
}

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

// AdjustCounts moves the property count of each location by delta, flooring at zero. It joins
// the transaction on ctx when there is one.
func (r *Repository) AdjustCounts(ctx context.Context, ids []string, delta int) error {
	ctx, span := tracing.StartSpan(ctx, "LocationRepository.AdjustCounts")
	defer span.End()

	if len(ids) == 0 || delta == 0 {
		return nil
	}

	ub := database.NewUpdateBuilder()
	ub.Update(locationsTable).Set(database.AdjustCounter(ub, "property_count", delta))
	ub.Where(ub.In("id", sqlbuilder.Flatten(ids)...))
	stmt, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"locations": ids,
		"delta":     delta,
	}).Debug("Adjusting location property counts")

	if _, err := database.Use(ctx, r.db).ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "adjusting location property counts")
	}
	return nil
}

// Recalculate recomputes every location's count from the active and pending listings of its
// tier and returns how many locations were corrected.
func (r *Repository) Recalculate(ctx context.Context) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "LocationRepository.Recalculate")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning location recount")
	}
	defer tx.Rollback(ctx)

	corrected := 0
	for _, tc := range tierColumns {
		result, err := tx.ExecContext(ctx, recountQuery(tc.column), string(tc.tier), countedStatuses)
		if err != nil {
			return 0, errors.Wrapf(err, "recounting %s locations", tc.tier)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "reading recount result")
		}
		r.logger.WithContext(ctx).Debugf("Recounted %s locations: corrected=%d", tc.tier, n)
		corrected += int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, errors.Wrap(err, "committing location recount")
	}
	return corrected, nil
}

func recountQuery(column string) string {
	return fmt.Sprintf(`
		UPDATE locations l
		SET property_count = c.total
		FROM (
			SELECT loc.id, COUNT(li.id) AS total
			FROM locations loc
			LEFT JOIN listings li ON li.%s = loc.id AND li.status = ANY($2)
			WHERE loc.type = $1
			GROUP BY loc.id
		) c
		WHERE l.id = c.id AND l.property_count <> c.total
	`, column)
}
