package plan

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

const plansTable = "premium_plans"

type PlanRow struct {
	ID                 sql.NullString  `db:"id"`
	Name               sql.NullString  `db:"name"`
	Price              sql.NullFloat64 `db:"price"`
	DurationDays       sql.NullInt64   `db:"duration_days"`
	Features           pq.StringArray  `db:"features"`
	AnalyticsPrecision sql.NullInt64   `db:"analytics_precision"`
	DeriveConversion   sql.NullBool    `db:"derive_conversion"`
	IsActive           sql.NullBool    `db:"is_active"`
}

var planStruct = database.NewStruct(new(PlanRow))

// defaultPrecision applies when a plan row has no analytics precision.
const defaultPrecision = 1

func ToPlan(row *PlanRow) models.PromotionPlan {
	precision := defaultPrecision
	if row.AnalyticsPrecision.Valid {
		precision = int(row.AnalyticsPrecision.Int64)
	}
	features := []string(row.Features)
	if features == nil {
		features = []string{}
	}
	return models.PromotionPlan{
		ID:                 row.ID.String,
		Name:               row.Name.String,
		Price:              row.Price.Float64,
		DurationDays:       int(row.DurationDays.Int64),
		Features:           features,
		AnalyticsPrecision: precision,
		DeriveConversion:   !row.DeriveConversion.Valid || row.DeriveConversion.Bool,
		IsActive:           row.IsActive.Bool,
	}
}

func ToPlans(rows []PlanRow) []models.PromotionPlan {
	plans := make([]models.PromotionPlan, len(rows))
	for i := range rows {
		plans[i] = ToPlan(&rows[i])
	}
	return plans
}
