package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/query"
)

const cityID = "3b241101-e2bb-4255-8caf-4136c566a962"

func TestParseFilters(t *testing.T) {
	values, err := url.ParseQuery("status=active&type=rumah&purpose=jual&city=" + cityID +
		"&min_price=100&price_range=50,&bedrooms_min=2&land_size_max=300.5" +
		"&features=pool,garage&features=garden&sort_by=price_asc")
	require.NoError(t, err)

	filters, err := ParseFilters(values)

	require.NoError(t, err)
	assert.Equal(t, "active", filters.Status)
	assert.Equal(t, "rumah", filters.Type)
	assert.Equal(t, "jual", filters.Purpose)
	assert.Equal(t, cityID, filters.Location.City)
	assert.Equal(t, 100.0, *filters.MinPrice)
	assert.Nil(t, filters.MaxPrice)
	require.NotNil(t, filters.PriceRange)
	assert.Equal(t, 50.0, *filters.PriceRange[0])
	assert.Nil(t, filters.PriceRange[1])
	assert.Equal(t, 2.0, *filters.Bedrooms.Min)
	assert.Nil(t, filters.Bedrooms.Max)
	assert.Equal(t, 300.5, *filters.LandSize.Max)
	assert.True(t, filters.Bathrooms.IsZero())
	assert.Equal(t, []string{"pool", "garage", "garden"}, filters.Features)
	assert.Equal(t, query.SortPriceAsc, filters.SortBy)
}

func TestParseFiltersAcceptsWholeNumberBounds(t *testing.T) {
	values, err := url.ParseQuery("bedrooms_min=3.0&floors_max=2&building_size_min=72.5")
	require.NoError(t, err)

	filters, err := ParseFilters(values)

	require.NoError(t, err)
	assert.Equal(t, 3.0, *filters.Bedrooms.Min)
	assert.Equal(t, 2.0, *filters.Floors.Max)
	assert.Equal(t, 72.5, *filters.BuildingSize.Min)
}

func TestParseFiltersRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		raw   string
		field string
	}{
		{"min_price=cheap", "min_price"},
		{"price_range=100", "price_range"},
		{"price_range=1,x", "price_range"},
		{"floors_min=two", "floors_min"},
		{"bedrooms_min=2.5", "bedrooms_min"},
		{"bathrooms_max=1.5", "bathrooms_max"},
		{"floors_max=3.25", "floors_max"},
		{"building_size_min=NaN", "building_size_min"},
		{"province=jawa-barat", "province"},
		{"district=42", "district"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			_, err = ParseFilters(values)

			var validationErr *clovererrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestParsePage(t *testing.T) {
	page, pageSize, err := ParsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, query.DefaultPageSize, pageSize)

	page, pageSize, err = ParsePage(url.Values{"page": {"3"}, "page_size": {"24"}})
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 24, pageSize)

	_, _, err = ParsePage(url.Values{"page": {"last"}})
	assert.True(t, clovererrors.IsValidationError(err))
}
