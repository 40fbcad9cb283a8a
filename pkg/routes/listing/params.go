package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/utils"
)

// rangeParams maps each numeric range filter to its query parameter prefix (<prefix>_min, <prefix>_max).
// Integer ranges bind against INTEGER columns and reject fractional bounds.
var rangeParams = []struct {
	prefix  string
	integer bool
	target  func(*query.Filters) *query.Range
}{
	{"bedrooms", true, func(f *query.Filters) *query.Range { return &f.Bedrooms }},
	{"bathrooms", true, func(f *query.Filters) *query.Range { return &f.Bathrooms }},
	{"building_size", false, func(f *query.Filters) *query.Range { return &f.BuildingSize }},
	{"land_size", false, func(f *query.Filters) *query.Range { return &f.LandSize }},
	{"floors", true, func(f *query.Filters) *query.Range { return &f.Floors }},
}

// ParseFilters reads listing search filters from query parameters. Malformed numbers are
// validation errors; absent parameters leave the filter unconstrained.
func ParseFilters(values url.Values) (query.Filters, error) {
	filters := query.Filters{
		Status:  values.Get("status"),
		Type:    values.Get("type"),
		Purpose: values.Get("purpose"),
		Location: query.LocationFilter{
			Province: values.Get("province"),
			City:     values.Get("city"),
			District: values.Get("district"),
		},
		Features: splitList(values["features"]),
		SortBy:   query.SortKey(values.Get("sort_by")),
	}

	locations := []struct{ field, id string }{
		{"province", filters.Location.Province},
		{"city", filters.Location.City},
		{"district", filters.Location.District},
	}
	for _, location := range locations {
		if location.id == "" {
			continue
		}
		if err := utils.ValidateValue(location.field, location.id, "uuid"); err != nil {
			return query.Filters{}, err
		}
	}

	var err error
	if filters.MinPrice, err = parseFloat(values, "min_price"); err != nil {
		return query.Filters{}, err
	}
	if filters.MaxPrice, err = parseFloat(values, "max_price"); err != nil {
		return query.Filters{}, err
	}
	if raw := values.Get("price_range"); raw != "" {
		bounds := strings.SplitN(raw, ",", 2)
		if len(bounds) != 2 {
			return query.Filters{}, clovererrors.NewValidationError("price_range", raw, "must be min,max")
		}
		var priceRange [2]*float64
		for i, bound := range bounds {
			if priceRange[i], err = toFloat("price_range", strings.TrimSpace(bound)); err != nil {
				return query.Filters{}, err
			}
		}
		filters.PriceRange = &priceRange
	}

	for _, rp := range rangeParams {
		r := rp.target(&filters)
		if r.Min, err = parseFloat(values, rp.prefix+"_min"); err != nil {
			return query.Filters{}, err
		}
		if r.Max, err = parseFloat(values, rp.prefix+"_max"); err != nil {
			return query.Filters{}, err
		}
		if !rp.integer {
			continue
		}
		if err := wholeNumber(values, rp.prefix+"_min", r.Min); err != nil {
			return query.Filters{}, err
		}
		if err := wholeNumber(values, rp.prefix+"_max", r.Max); err != nil {
			return query.Filters{}, err
		}
	}

	return filters, nil
}

// ParsePage reads page and page_size, defaulting to the first page of query.DefaultPageSize.
func ParsePage(values url.Values) (int, int, error) {
	page, err := parseInt(values, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := parseInt(values, "page_size", query.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func parseFloat(values url.Values, name string) (*float64, error) {
	return toFloat(name, values.Get(name))
}

func toFloat(name, raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, clovererrors.NewValidationError(name, raw, "must be a number")
	}
	return &v, nil
}

func wholeNumber(values url.Values, name string, v *float64) error {
	if v != nil && *v != math.Trunc(*v) {
		return clovererrors.NewValidationError(name, values.Get(name), "must be a whole number")
	}
	return nil
}

func parseInt(values url.Values, name string, fallback int) (int, error) {
	raw := values.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, clovererrors.NewValidationError(name, raw, "must be an integer")
	}
	return v, nil
}

// splitList accepts both repeated parameters and comma separated values.
func splitList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, item := range strings.Split(entry, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
