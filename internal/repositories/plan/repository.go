// Package plan reads the premium plan catalog.
package plan

import (
	"context"

	"github.com/Gobusters/ectologger"
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

// ListPlans returns every plan, including inactive ones still referenced by running promotions.
func (r *Repository) ListPlans(ctx context.Context) ([]models.PromotionPlan, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanRepository.ListPlans")
	defer span.End()

	sb := planStruct.SelectFrom(plansTable)
	sb.OrderBy("price ASC", "id ASC")
	stmt, args := sb.Build()

	r.logger.WithContext(ctx).Debug("Listing premium plans")

	var rows []PlanRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "listing premium plans")
	}
	return ToPlans(rows), nil
}
