package listing

import (
	"time"

	"github.com/Ramsey-B/clover/pkg/enrichment"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/premium"
)

// ToProperty builds the caller-facing listing. It is total: unknown enum values map to their
// fallback and null numeric columns stay nil.
func ToProperty(row models.ListingRow, resolved enrichment.Resolved, promotion *models.PromotionDetail) models.Property {
	features := row.Features
	if features == nil {
		features = []string{}
	}

	return models.Property{
		ID:           row.ID,
		Title:        row.Title,
		Description:  row.Description,
		Price:        row.Price,
		PriceUnit:    row.PriceUnit,
		Type:         models.ParsePropertyType(row.PropertyType),
		Purpose:      row.Purpose,
		Bedrooms:     row.Bedrooms,
		Bathrooms:    row.Bathrooms,
		BuildingSize: row.BuildingSize,
		LandSize:     row.LandSize,
		Floors:       row.Floors,
		Location: models.PropertyLocation{
			Province:   resolved.Province,
			City:       resolved.City,
			District:   resolved.District,
			Address:    row.Address,
			PostalCode: row.PostalCode,
		},
		Images:         resolved.ImageList(),
		Features:       features,
		Agent:          resolved.Agent,
		CreatedAt:      row.CreatedAt,
		IsPromoted:     row.IsPromoted,
		Status:         models.ParseListingStatus(row.Status),
		Views:          row.Views,
		Inquiries:      row.Inquiries,
		PremiumDetails: promotion,
	}
}

// DashboardStatus buckets a raw status for the owner's dashboard.
func DashboardStatus(raw string) models.UserListingStatus {
	switch models.ListingStatus(raw) {
	case models.ListingStatusActive:
		return models.UserListingActive
	case models.ListingStatusPending, models.ListingStatusDraft:
		return models.UserListingPending
	case models.ListingStatusRejected, models.ListingStatusRented, models.ListingStatusSold:
		return models.UserListingInactive
	default:
		return models.UserListingExpired
	}
}

func ToUserListing(row models.ListingRow, resolved enrichment.Resolved, now time.Time) models.UserListing {
	listing := models.UserListing{
		ID:           row.ID,
		Title:        row.Title,
		Type:         models.ParsePropertyType(row.PropertyType),
		Purpose:      row.Purpose,
		Price:        row.Price,
		PriceUnit:    row.PriceUnit,
		Status:       DashboardStatus(row.Status),
		Views:        row.Views,
		Inquiries:    row.Inquiries,
		CreatedAt:    row.CreatedAt,
		Image:        resolved.PrimaryImage(),
		City:         resolved.City,
		Province:     resolved.Province,
		Bedrooms:     row.Bedrooms,
		Bathrooms:    row.Bathrooms,
		BuildingSize: row.BuildingSize,
		LandSize:     row.LandSize,
	}

	if active, ok := premium.Active(row.Promotions, now); ok {
		expires := active.EndDate
		listing.IsPremium = true
		listing.PremiumExpiresAt = &expires
	}
	return listing
}
