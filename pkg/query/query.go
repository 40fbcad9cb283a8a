package query

import (
	"math"

	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
	// MaxOffset bounds (page-1)*pageSize so the offset never overflows.
	MaxOffset = math.MaxInt32
)

type order struct {
	column string
	desc   bool
}

var sortOrders = map[SortKey][]order{
	SortNewest:           {{"created_at", true}},
	SortOldest:           {{"created_at", false}},
	SortPriceAsc:         {{"price", false}},
	SortPriceDesc:        {{"price", true}},
	SortViews:            {{"views", true}},
	SortPremium:          {{"is_promoted", true}, {"created_at", true}},
	SortBuildingSizeAsc:  {{"building_size", false}},
	SortBuildingSizeDesc: {{"building_size", true}},
	SortLandSizeAsc:      {{"land_size", false}},
	SortLandSizeDesc:     {{"land_size", true}},
}

// Query is a validated listing search: filters, sort and a clamped page window.
type Query struct {
	Filters  Filters
	Sort     SortKey
	Page     int
	PageSize int
}

// Build clamps page and pageSize to at least 1 (pageSize at most MaxPageSize, offset at most
// MaxOffset) and resolves an unknown or empty sort key to newest.
func Build(filters Filters, page, pageSize int) Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if maxPage := MaxOffset/pageSize + 1; page > maxPage {
		page = maxPage
	}

	sort := filters.SortBy
	if _, ok := sortOrders[sort]; !ok {
		sort = SortNewest
	}

	return Query{
		Filters:  filters,
		Sort:     sort,
		Page:     page,
		PageSize: pageSize,
	}
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// SelectPage renders the page query over table with the given columns.
func (q Query) SelectPage(table string, columns ...string) *sqlbuilder.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select(columns...).From(table)
	q.where(sb)
	sb.OrderBy(q.orderBy()...)
	sb.Limit(q.PageSize)
	sb.Offset(q.Offset())
	return sb
}

// SelectCount renders COUNT(*) over the same predicate, ignoring the page window.
func (q Query) SelectCount(table string) *sqlbuilder.SelectBuilder {
	sb := database.NewSelectBuilder()
	sb.Select("COUNT(*)").From(table)
	q.where(sb)
	return sb
}

func (q Query) where(sb *sqlbuilder.SelectBuilder) {
	f := q.Filters
	var exprs []string

	if constrained(f.Status) {
		exprs = append(exprs, sb.Equal("status", f.Status))
	}
	if constrained(f.Type) {
		exprs = append(exprs, sb.Equal("property_type", f.Type))
	}
	if constrained(f.Purpose) {
		exprs = append(exprs, sb.Equal("purpose", f.Purpose))
	}

	ranges := []struct {
		column string
		r      Range
	}{
		{"price", f.Price()},
		{"bedrooms", f.Bedrooms},
		{"bathrooms", f.Bathrooms},
		{"building_size", f.BuildingSize},
		{"land_size", f.LandSize},
		{"floors", f.Floors},
	}
	for _, rc := range ranges {
		if rc.r.Min != nil {
			exprs = append(exprs, sb.GreaterEqualThan(rc.column, *rc.r.Min))
		}
		if rc.r.Max != nil {
			exprs = append(exprs, sb.LessEqualThan(rc.column, *rc.r.Max))
		}
	}

	if f.Location.Province != "" {
		exprs = append(exprs, sb.Equal("province_id", f.Location.Province))
	}
	if f.Location.City != "" {
		exprs = append(exprs, sb.Equal("city_id", f.Location.City))
	}
	if f.Location.District != "" {
		exprs = append(exprs, sb.Equal("district_id", f.Location.District))
	}

	if len(f.Features) > 0 {
		exprs = append(exprs, database.ArrayContains(sb, "features", f.Features))
	}

	if len(exprs) > 0 {
		sb.Where(exprs...)
	}
}

func (q Query) orderBy() []string {
	orders := sortOrders[q.Sort]
	cols := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		dir := " ASC"
		if o.desc {
			dir = " DESC"
		}
		cols = append(cols, o.column+dir+" NULLS LAST")
	}
	// stable windows across pages when the sort column ties
	return append(cols, "id ASC")
}
