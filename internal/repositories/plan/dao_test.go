package plan

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestToPlanDefaults(t *testing.T) {
	plan := ToPlan(&PlanRow{
		ID:   sql.NullString{String: "gold", Valid: true},
		Name: sql.NullString{String: "Gold", Valid: true},
	})

	assert.Equal(t, defaultPrecision, plan.AnalyticsPrecision)
	assert.True(t, plan.DeriveConversion)
	assert.Equal(t, []string{}, plan.Features)
	assert.False(t, plan.IsActive)
}

func TestToPlanStoredSettings(t *testing.T) {
	plan := ToPlan(&PlanRow{
		ID:                 sql.NullString{String: "platinum", Valid: true},
		Price:              sql.NullFloat64{Float64: 499000, Valid: true},
		DurationDays:       sql.NullInt64{Int64: 30, Valid: true},
		Features:           pq.StringArray{"top_placement"},
		AnalyticsPrecision: sql.NullInt64{Int64: 2, Valid: true},
		DeriveConversion:   sql.NullBool{Bool: false, Valid: true},
		IsActive:           sql.NullBool{Bool: true, Valid: true},
	})

	assert.Equal(t, 2, plan.AnalyticsPrecision)
	assert.False(t, plan.DeriveConversion)
	assert.Equal(t, 30, plan.DurationDays)
	assert.Equal(t, []string{"top_placement"}, plan.Features)
	assert.True(t, plan.IsActive)
}
