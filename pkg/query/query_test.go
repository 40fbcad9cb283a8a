package query

import (
	"math"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

func ptr[T any](v T) *T {
	return &v
}

func TestBuildClampsPageWindow(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"defaults kept", 1, 12, 1, 12, 0},
		{"zero page", 0, 10, 1, 10, 0},
		{"negative page size", 2, -5, 2, 1, 1},
		{"page size above max", 3, 500, 3, MaxPageSize, 2 * MaxPageSize},
		{"third page", 3, 12, 3, 12, 24},
		{"huge page", math.MaxInt64 / 50, 100, MaxOffset/100 + 1, 100, MaxOffset / 100 * 100},
		{"max int page", math.MaxInt, 1, MaxOffset + 1, 1, MaxOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Build(Filters{}, tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, q.Page)
			assert.Equal(t, tt.wantPageSize, q.PageSize)
			assert.Equal(t, tt.wantOffset, q.Offset())
		})
	}
}

func TestSelectPageKeepsOffsetForHugePages(t *testing.T) {
	q := Build(Filters{}, math.MaxInt64/50, 100)

	stmt, args := q.SelectPage("listings", "id").Build()

	assert.Contains(t, stmt, "OFFSET")
	assert.Contains(t, args, q.Offset())
	assert.Positive(t, q.Offset())
}

func TestBuildFallsBackToNewest(t *testing.T) {
	assert.Equal(t, SortNewest, Build(Filters{}, 1, 12).Sort)
	assert.Equal(t, SortNewest, Build(Filters{SortBy: "cheapest"}, 1, 12).Sort)
	assert.Equal(t, SortPriceAsc, Build(Filters{SortBy: SortPriceAsc}, 1, 12).Sort)
}

func TestSelectPageRendersPredicate(t *testing.T) {
	filters := Filters{
		Status:   "active",
		Type:     All,
		Purpose:  "jual",
		MinPrice: ptr(100.0),
		MaxPrice: ptr(500.0),
		Bedrooms: Range{Min: ptr(2.0)},
		Location: LocationFilter{City: "c6f1f6a4-4f5e-4c57-9d84-8b3a3f0f6f10"},
		Features: []string{"pool", "garage"},
		SortBy:   SortPriceAsc,
	}

	stmt, args := Build(filters, 2, 10).SelectPage("listings", "id", "price").Build()

	assert.Contains(t, stmt, "SELECT id, price FROM listings")
	assert.Contains(t, stmt, "status = $")
	assert.Contains(t, stmt, "purpose = $")
	assert.NotContains(t, stmt, "property_type")
	assert.Contains(t, stmt, "price >= $")
	assert.Contains(t, stmt, "price <= $")
	assert.Contains(t, stmt, "bedrooms >= $")
	assert.NotContains(t, stmt, "bedrooms <=")
	assert.Contains(t, stmt, "city_id = $")
	assert.Contains(t, stmt, "features @> $")
	assert.Contains(t, stmt, "ORDER BY price ASC NULLS LAST, id ASC")
	assert.Contains(t, stmt, "LIMIT")
	assert.Contains(t, stmt, "OFFSET")

	assert.Contains(t, args, "active")
	assert.Contains(t, args, "jual")
	assert.Contains(t, args, 100.0)
	assert.Contains(t, args, 500.0)
	assert.Contains(t, args, pq.StringArray{"pool", "garage"})
}

func TestSelectCountIgnoresWindowAndOrder(t *testing.T) {
	stmt, args := Build(Filters{Status: "active", SortBy: SortViews}, 4, 20).SelectCount("listings").Build()

	assert.Contains(t, stmt, "SELECT COUNT(*) FROM listings WHERE status = $1")
	assert.NotContains(t, stmt, "ORDER BY")
	assert.NotContains(t, stmt, "LIMIT")
	assert.Equal(t, []any{"active"}, args)
}

func TestSelectPageWithoutFilters(t *testing.T) {
	stmt, _ := Build(Filters{Status: All}, 1, 12).SelectPage("listings", "id").Build()

	assert.NotContains(t, stmt, "WHERE")
	assert.Contains(t, stmt, "ORDER BY created_at DESC NULLS LAST, id ASC")
}

func TestPriceFoldsAllInputs(t *testing.T) {
	f := Filters{
		PriceRange: &[2]*float64{ptr(100.0), ptr(500.0)},
		MinPrice:   ptr(150.0),
		MaxPrice:   ptr(800.0),
	}

	price := f.Price()
	require.NotNil(t, price.Min)
	require.NotNil(t, price.Max)
	assert.Equal(t, 150.0, *price.Min)
	assert.Equal(t, 500.0, *price.Max)
}

func TestRangeContains(t *testing.T) {
	r := Range{Min: ptr(2.0), Max: ptr(4.0)}

	assert.True(t, Range{}.Contains(nil))
	assert.False(t, r.Contains(nil))
	assert.False(t, r.Contains(ptr(1.0)))
	assert.True(t, r.Contains(ptr(2.0)))
	assert.True(t, r.Contains(ptr(4.0)))
	assert.False(t, r.Contains(ptr(4.5)))
}

func scenarioRows() []models.ListingRow {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{120, 600, 300, 450, 150}
	rows := make([]models.ListingRow, len(prices))
	for i, price := range prices {
		rows[i] = models.ListingRow{
			ID:        string(rune('a' + i)),
			Price:     price,
			Status:    "active",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return rows
}

func TestApplyFiltersSortsAndWindows(t *testing.T) {
	filters := Filters{
		PriceRange: &[2]*float64{ptr(100.0), ptr(500.0)},
		SortBy:     SortPriceAsc,
	}

	page, total := Build(filters, 1, 2).Apply(scenarioRows())
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, 120.0, page[0].Price)
	assert.Equal(t, 150.0, page[1].Price)

	page, total = Build(filters, 2, 2).Apply(scenarioRows())
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, 300.0, page[0].Price)
	assert.Equal(t, 450.0, page[1].Price)

	page, total = Build(filters, 3, 2).Apply(scenarioRows())
	assert.Equal(t, 4, total)
	assert.Empty(t, page)
}

func TestLessPutsNullsLastAndBreaksTiesByID(t *testing.T) {
	q := Build(Filters{SortBy: SortBuildingSizeDesc}, 1, 10)
	big := models.ListingRow{ID: "b", BuildingSize: ptr(200.0)}
	small := models.ListingRow{ID: "a", BuildingSize: ptr(90.0)}
	unknown := models.ListingRow{ID: "0"}
	tie := models.ListingRow{ID: "c", BuildingSize: ptr(200.0)}

	assert.True(t, q.Less(big, small))
	assert.True(t, q.Less(small, unknown))
	assert.False(t, q.Less(unknown, small))
	assert.True(t, q.Less(big, tie))
}

func TestMatchesRequiresEveryFeature(t *testing.T) {
	q := Build(Filters{Features: []string{"pool", "garage"}}, 1, 10)

	assert.True(t, q.Matches(models.ListingRow{Features: []string{"garage", "pool", "garden"}}))
	assert.False(t, q.Matches(models.ListingRow{Features: []string{"pool"}}))
}
