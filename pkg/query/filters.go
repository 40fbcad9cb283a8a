package query

// All is the filter value meaning "no constraint" for status, type and purpose.
const All = "all"

// Range is an inclusive numeric range; either bound may be absent.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Intersect returns the tighter bound on each side.
func (r Range) Intersect(other Range) Range {
	out := r
	if other.Min != nil && (out.Min == nil || *other.Min > *out.Min) {
		out.Min = other.Min
	}
	if other.Max != nil && (out.Max == nil || *other.Max < *out.Max) {
		out.Max = other.Max
	}
	return out
}

// Contains reports whether v satisfies both bounds. A nil v only satisfies an empty range.
func (r Range) Contains(v *float64) bool {
	if r.IsZero() {
		return true
	}
	if v == nil {
		return false
	}
	if r.Min != nil && *v < *r.Min {
		return false
	}
	if r.Max != nil && *v > *r.Max {
		return false
	}
	return true
}

type LocationFilter struct {
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
}

type SortKey string

const (
	SortNewest           SortKey = "newest"
	SortOldest           SortKey = "oldest"
	SortPriceAsc         SortKey = "price_asc"
	SortPriceDesc        SortKey = "price_desc"
	SortViews            SortKey = "views"
	SortPremium          SortKey = "premium"
	SortBuildingSizeAsc  SortKey = "building_size_asc"
	SortBuildingSizeDesc SortKey = "building_size_desc"
	SortLandSizeAsc      SortKey = "land_size_asc"
	SortLandSizeDesc     SortKey = "land_size_desc"
)

// Filters is the caller-facing listing search. Zero values impose no constraint.
type Filters struct {
	Status  string `json:"status,omitempty"`
	Type    string `json:"type,omitempty"`
	Purpose string `json:"purpose,omitempty"`

	// PriceRange, MinPrice and MaxPrice are all applied; the tighter bound wins.
	PriceRange *[2]*float64 `json:"price_range,omitempty"`
	MinPrice   *float64     `json:"min_price,omitempty"`
	MaxPrice   *float64     `json:"max_price,omitempty"`

	Bedrooms     Range `json:"bedrooms,omitempty"`
	Bathrooms    Range `json:"bathrooms,omitempty"`
	BuildingSize Range `json:"building_size,omitempty"`
	LandSize     Range `json:"land_size,omitempty"`
	Floors       Range `json:"floors,omitempty"`

	Location LocationFilter `json:"location,omitempty"`
	Features []string       `json:"features,omitempty"`
	SortBy   SortKey        `json:"sort_by,omitempty"`
}

// Price folds the three price inputs into one range.
func (f Filters) Price() Range {
	price := Range{Min: f.MinPrice, Max: f.MaxPrice}
	if f.PriceRange != nil {
		price = price.Intersect(Range{Min: f.PriceRange[0], Max: f.PriceRange[1]})
	}
	return price
}

func constrained(value string) bool {
	return value != "" && value != All
}
