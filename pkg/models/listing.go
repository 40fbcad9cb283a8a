package models

import "time"

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "rumah"
	PropertyTypeApartment  PropertyType = "apartemen"
	PropertyTypeCondo      PropertyType = "kondominium"
	PropertyTypeShophouse  PropertyType = "ruko"
	PropertyTypeCommercial PropertyType = "gedung_komersial"
	PropertyTypeIndustrial PropertyType = "ruang_industri"
	PropertyTypeLand       PropertyType = "tanah"
	PropertyTypeOther      PropertyType = "lainnya"
)

var propertyTypes = map[PropertyType]struct{}{
	PropertyTypeHouse:      {},
	PropertyTypeApartment:  {},
	PropertyTypeCondo:      {},
	PropertyTypeShophouse:  {},
	PropertyTypeCommercial: {},
	PropertyTypeIndustrial: {},
	PropertyTypeLand:       {},
	PropertyTypeOther:      {},
}

// ParsePropertyType maps unknown values to PropertyTypeOther.
func ParsePropertyType(raw string) PropertyType {
	if _, ok := propertyTypes[PropertyType(raw)]; ok {
		return PropertyType(raw)
	}
	return PropertyTypeOther
}

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusRejected ListingStatus = "rejected"
	ListingStatusRented   ListingStatus = "rented"
	ListingStatusSold     ListingStatus = "sold"
	ListingStatusUnknown  ListingStatus = "unknown"
)

var listingStatuses = map[ListingStatus]struct{}{
	ListingStatusActive:   {},
	ListingStatusDraft:    {},
	ListingStatusInactive: {},
	ListingStatusPending:  {},
	ListingStatusRejected: {},
	ListingStatusRented:   {},
	ListingStatusSold:     {},
}

// ParseListingStatus maps unknown values to ListingStatusUnknown.
func ParseListingStatus(raw string) ListingStatus {
	if _, ok := listingStatuses[ListingStatus(raw)]; ok {
		return ListingStatus(raw)
	}
	return ListingStatusUnknown
}

// IsWritable reports whether status may be set through UpdateStatus.
func (s ListingStatus) IsWritable() bool {
	_, ok := listingStatuses[s]
	return ok
}

type Purpose string

const (
	PurposeSale Purpose = "jual"
	PurposeRent Purpose = "sewa"
)

type PriceUnit string

const (
	PriceUnitMillion PriceUnit = "juta"
	PriceUnitBillion PriceUnit = "miliar"
)

// ListingRow is a listings row as stored, with its promotion records embedded.
type ListingRow struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Price        float64
	PriceUnit    string
	PropertyType string
	Purpose      string
	Bedrooms     *int
	Bathrooms    *int
	BuildingSize *float64
	LandSize     *float64
	Floors       *int
	ProvinceID   string
	CityID       string
	DistrictID   string
	Address      string
	PostalCode   string
	Features     []string
	Status       string
	Views        int
	Inquiries    int
	IsPromoted   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Promotions   []PromotionRecord
}

// LocationIDs returns the non-empty province, city and district ids.
func (r ListingRow) LocationIDs() []string {
	ids := make([]string, 0, 3)
	for _, id := range []string{r.ProvinceID, r.CityID, r.DistrictID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// NewListing is the input for creating or editing a listing. Images are stored in order,
// the first one primary.
type NewListing struct {
	UserID       string
	Title        string
	Description  string
	Price        float64
	PriceUnit    PriceUnit
	PropertyType PropertyType
	Purpose      Purpose
	Bedrooms     *int
	Bathrooms    *int
	BuildingSize *float64
	LandSize     *float64
	Floors       *int
	ProvinceID   string
	CityID       string
	DistrictID   string
	Address      string
	PostalCode   string
	Features     []string
	Images       []string
}

// LocationIDs returns the non-empty province, city and district ids.
func (l NewListing) LocationIDs() []string {
	return ListingRow{ProvinceID: l.ProvinceID, CityID: l.CityID, DistrictID: l.DistrictID}.LocationIDs()
}

// CountsTowardLocation reports whether a listing in this status is included in its locations' property counts.
func (s ListingStatus) CountsTowardLocation() bool {
	return s == ListingStatusActive || s == ListingStatusPending
}
