package listing

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

const (
	listingsTable = "listings"
	mediaTable    = "property_media"
)

// promotionsColumn aggregates a listing's premium records, newest first, into one JSON array.
const promotionsColumn = "COALESCE((SELECT json_agg(p ORDER BY p.created_at DESC) FROM premium_listings p WHERE p.property_id = listings.id), '[]') AS promotions"

var listingColumns = []string{
	"id",
	"user_id",
	"title",
	"description",
	"price",
	"price_unit",
	"property_type",
	"purpose",
	"bedrooms",
	"bathrooms",
	"building_size",
	"land_size",
	"floors",
	"province_id",
	"city_id",
	"district_id",
	"address",
	"postal_code",
	"features",
	"status",
	"views",
	"inquiries",
	"is_promoted",
	"created_at",
	"updated_at",
}

func selectColumns() []string {
	return append(append([]string{}, listingColumns...), promotionsColumn)
}

// ListingRow is a listings row joined with its aggregated promotions.
type ListingRow struct {
	ID           sql.NullString                           `db:"id"`
	UserID       sql.NullString                           `db:"user_id"`
	Title        sql.NullString                           `db:"title"`
	Description  sql.NullString                           `db:"description"`
	Price        sql.NullFloat64                          `db:"price"`
	PriceUnit    sql.NullString                           `db:"price_unit"`
	PropertyType sql.NullString                           `db:"property_type"`
	Purpose      sql.NullString                           `db:"purpose"`
	Bedrooms     sql.NullInt64                            `db:"bedrooms"`
	Bathrooms    sql.NullInt64                            `db:"bathrooms"`
	BuildingSize sql.NullFloat64                          `db:"building_size"`
	LandSize     sql.NullFloat64                          `db:"land_size"`
	Floors       sql.NullInt64                            `db:"floors"`
	ProvinceID   sql.NullString                           `db:"province_id"`
	CityID       sql.NullString                           `db:"city_id"`
	DistrictID   sql.NullString                           `db:"district_id"`
	Address      sql.NullString                           `db:"address"`
	PostalCode   sql.NullString                           `db:"postal_code"`
	Features     pq.StringArray                           `db:"features"`
	Status       sql.NullString                           `db:"status"`
	Views        sql.NullInt64                            `db:"views"`
	Inquiries    sql.NullInt64                            `db:"inquiries"`
	IsPromoted   sql.NullBool                             `db:"is_promoted"`
	CreatedAt    sql.NullTime                             `db:"created_at"`
	UpdatedAt    sql.NullTime                             `db:"updated_at"`
	Promotions   database.JSONB[[]models.PromotionRecord] `db:"promotions"`
}

// ToListing converts a database row to a domain row.
func ToListing(row *ListingRow) *models.ListingRow {
	promotions := row.Promotions.Data
	if promotions == nil {
		promotions = []models.PromotionRecord{}
	}
	features := []string(row.Features)
	if features == nil {
		features = []string{}
	}
	return &models.ListingRow{
		ID:           row.ID.String,
		UserID:       row.UserID.String,
		Title:        row.Title.String,
		Description:  row.Description.String,
		Price:        row.Price.Float64,
		PriceUnit:    row.PriceUnit.String,
		PropertyType: row.PropertyType.String,
		Purpose:      row.Purpose.String,
		Bedrooms:     nullInt(row.Bedrooms),
		Bathrooms:    nullInt(row.Bathrooms),
		BuildingSize: nullFloat(row.BuildingSize),
		LandSize:     nullFloat(row.LandSize),
		Floors:       nullInt(row.Floors),
		ProvinceID:   row.ProvinceID.String,
		CityID:       row.CityID.String,
		DistrictID:   row.DistrictID.String,
		Address:      row.Address.String,
		PostalCode:   row.PostalCode.String,
		Features:     features,
		Status:       row.Status.String,
		Views:        int(row.Views.Int64),
		Inquiries:    int(row.Inquiries.Int64),
		IsPromoted:   row.IsPromoted.Bool,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
		Promotions:   promotions,
	}
}

func ToListings(rows []ListingRow) []models.ListingRow {
	listings := make([]models.ListingRow, len(rows))
	for i := range rows {
		listings[i] = *ToListing(&rows[i])
	}
	return listings
}

var insertColumns = []string{
	"id", "user_id", "title", "description", "price", "price_unit", "property_type", "purpose",
	"bedrooms", "bathrooms", "building_size", "land_size", "floors",
	"province_id", "city_id", "district_id", "address", "postal_code", "features",
	"status", "views", "inquiries", "is_promoted", "created_at", "updated_at",
}

func insertValues(id string, l models.NewListing, now time.Time) []any {
	features := l.Features
	if features == nil {
		features = []string{}
	}
	return []any{
		id,
		l.UserID,
		l.Title,
		l.Description,
		l.Price,
		string(l.PriceUnit),
		string(l.PropertyType),
		string(l.Purpose),
		toNullInt(l.Bedrooms),
		toNullInt(l.Bathrooms),
		toNullFloat(l.BuildingSize),
		toNullFloat(l.LandSize),
		toNullInt(l.Floors),
		toNullString(l.ProvinceID),
		toNullString(l.CityID),
		toNullString(l.DistrictID),
		l.Address,
		l.PostalCode,
		pq.StringArray(features),
		string(models.ListingStatusPending),
		0,
		0,
		false,
		now,
		now,
	}
}

var mediaColumns = []string{"listing_id", "media_url", "is_primary", "position", "created_at"}

// mediaValues returns one row of mediaColumns per non-blank image; the first stored image is primary.
func mediaValues(listingID string, images []string, now time.Time) [][]any {
	rows := make([][]any, 0, len(images))
	for _, image := range images {
		if image == "" {
			continue
		}
		rows = append(rows, []any{listingID, image, len(rows) == 0, len(rows), now})
	}
	return rows
}

// updateAssignments are the editable columns, in the order updateValues returns them.
var updateAssignments = []string{
	"title", "description", "price", "price_unit", "property_type", "purpose",
	"bedrooms", "bathrooms", "building_size", "land_size", "floors",
	"province_id", "city_id", "district_id", "address", "postal_code", "features", "updated_at",
}

func updateValues(l models.NewListing, now time.Time) []any {
	features := l.Features
	if features == nil {
		features = []string{}
	}
	return []any{
		l.Title,
		l.Description,
		l.Price,
		string(l.PriceUnit),
		string(l.PropertyType),
		string(l.Purpose),
		toNullInt(l.Bedrooms),
		toNullInt(l.Bathrooms),
		toNullFloat(l.BuildingSize),
		toNullFloat(l.LandSize),
		toNullInt(l.Floors),
		toNullString(l.ProvinceID),
		toNullString(l.CityID),
		toNullString(l.DistrictID),
		l.Address,
		l.PostalCode,
		pq.StringArray(features),
		now,
	}
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}
