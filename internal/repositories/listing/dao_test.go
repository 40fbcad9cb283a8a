package listing

import (
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func TestToListingNormalisesNulls(t *testing.T) {
	row := ToListing(&ListingRow{
		ID:        sql.NullString{String: "l1", Valid: true},
		Price:     sql.NullFloat64{Float64: 950, Valid: true},
		Bedrooms:  sql.NullInt64{Int64: 3, Valid: true},
		Status:    sql.NullString{String: "active", Valid: true},
		CreatedAt: sql.NullTime{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Valid: true},
	})

	assert.Equal(t, "l1", row.ID)
	require.NotNil(t, row.Bedrooms)
	assert.Equal(t, 3, *row.Bedrooms)
	assert.Nil(t, row.Bathrooms)
	assert.Nil(t, row.BuildingSize)
	assert.Equal(t, []string{}, row.Features)
	assert.Equal(t, []models.PromotionRecord{}, row.Promotions)
}

func TestInsertValuesMatchColumns(t *testing.T) {
	bedrooms := 2
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	values := insertValues("l1", models.NewListing{
		UserID:   "u1",
		Title:    "Rumah",
		Bedrooms: &bedrooms,
		CityID:   "c1",
	}, now)

	require.Len(t, values, len(insertColumns))
	byColumn := make(map[string]any, len(values))
	for i, column := range insertColumns {
		byColumn[column] = values[i]
	}
	assert.Equal(t, "pending", byColumn["status"])
	assert.Equal(t, sql.NullInt64{Int64: 2, Valid: true}, byColumn["bedrooms"])
	assert.Equal(t, sql.NullString{}, byColumn["province_id"])
	assert.Equal(t, sql.NullString{String: "c1", Valid: true}, byColumn["city_id"])
	assert.Equal(t, pq.StringArray{}, byColumn["features"])
	assert.Equal(t, now, byColumn["created_at"])
}

func TestCountDelta(t *testing.T) {
	assert.Equal(t, -1, countDelta(models.ListingStatusActive, models.ListingStatusSold))
	assert.Equal(t, 1, countDelta(models.ListingStatusDraft, models.ListingStatusPending))
	assert.Equal(t, 0, countDelta(models.ListingStatusActive, models.ListingStatusPending))
	assert.Equal(t, 0, countDelta(models.ListingStatusSold, models.ListingStatusRented))
}

func TestMediaValuesMarkFirstImagePrimary(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	rows := mediaValues("l1", []string{"https://cdn/a.jpg", "", "https://cdn/b.jpg"}, now)

	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Len(t, row, len(mediaColumns))
	}
	assert.Equal(t, []any{"l1", "https://cdn/a.jpg", true, 0, now}, rows[0])
	assert.Equal(t, []any{"l1", "https://cdn/b.jpg", false, 1, now}, rows[1])
	assert.Empty(t, mediaValues("l1", nil, now))
}

func TestUpdateValuesMatchAssignments(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	values := updateValues(models.NewListing{
		Title:      "Rumah Baru",
		ProvinceID: "p1",
		Features:   []string{"pool"},
	}, now)

	require.Len(t, values, len(updateAssignments))
	byColumn := make(map[string]any, len(values))
	for i, column := range updateAssignments {
		byColumn[column] = values[i]
	}
	assert.Equal(t, "Rumah Baru", byColumn["title"])
	assert.Equal(t, sql.NullString{String: "p1", Valid: true}, byColumn["province_id"])
	assert.Equal(t, sql.NullString{}, byColumn["district_id"])
	assert.Equal(t, pq.StringArray{"pool"}, byColumn["features"])
	assert.Equal(t, now, byColumn["updated_at"])
	assert.NotContains(t, updateAssignments, "status")
	assert.NotContains(t, updateAssignments, "user_id")
}
