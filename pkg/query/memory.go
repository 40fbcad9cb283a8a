package query

import (
	"sort"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/clover/pkg/models"
)

// Matches evaluates the query predicate against a row the way the SQL predicate does.
func (q Query) Matches(row models.ListingRow) bool {
	f := q.Filters

	if constrained(f.Status) && row.Status != f.Status {
		return false
	}
	if constrained(f.Type) && row.PropertyType != f.Type {
		return false
	}
	if constrained(f.Purpose) && row.Purpose != f.Purpose {
		return false
	}

	price := row.Price
	if !f.Price().Contains(&price) ||
		!f.Bedrooms.Contains(intValue(row.Bedrooms)) ||
		!f.Bathrooms.Contains(intValue(row.Bathrooms)) ||
		!f.BuildingSize.Contains(row.BuildingSize) ||
		!f.LandSize.Contains(row.LandSize) ||
		!f.Floors.Contains(intValue(row.Floors)) {
		return false
	}

	if f.Location.Province != "" && row.ProvinceID != f.Location.Province {
		return false
	}
	if f.Location.City != "" && row.CityID != f.Location.City {
		return false
	}
	if f.Location.District != "" && row.DistrictID != f.Location.District {
		return false
	}

	for _, feature := range f.Features {
		if !ectolinq.Contains(row.Features, feature) {
			return false
		}
	}
	return true
}

// Less orders rows the way the SQL ORDER BY does, nulls last and id as the tiebreaker.
func (q Query) Less(a, b models.ListingRow) bool {
	for _, o := range sortOrders[q.Sort] {
		av, bv := sortValue(a, o.column), sortValue(b, o.column)
		switch {
		case av == nil && bv == nil:
			continue
		case av == nil:
			return false
		case bv == nil:
			return true
		case *av == *bv:
			continue
		case o.desc:
			return *av > *bv
		default:
			return *av < *bv
		}
	}
	return a.ID < b.ID
}

// Apply filters, sorts and windows rows in memory. It returns the page and the unpaginated match count.
func (q Query) Apply(rows []models.ListingRow) ([]models.ListingRow, int) {
	matched := ectolinq.Filter(rows, q.Matches)
	sort.SliceStable(matched, func(i, j int) bool {
		return q.Less(matched[i], matched[j])
	})

	total := len(matched)
	start := q.Offset()
	if start >= total {
		return []models.ListingRow{}, total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func sortValue(row models.ListingRow, column string) *float64 {
	var v float64
	switch column {
	case "created_at":
		v = float64(row.CreatedAt.UnixNano())
	case "price":
		v = row.Price
	case "views":
		v = float64(row.Views)
	case "is_promoted":
		if row.IsPromoted {
			v = 1
		}
	case "building_size":
		return row.BuildingSize
	case "land_size":
		return row.LandSize
	default:
		return nil
	}
	return &v
}

func intValue(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
