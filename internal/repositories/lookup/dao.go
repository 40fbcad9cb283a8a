package lookup

import (
	"database/sql"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
)

const (
	mediaTable     = "property_media"
	locationsTable = "locations"
	profilesTable  = "user_profiles"
)

type MediaRow struct {
	ID        sql.NullString `db:"id"`
	ListingID sql.NullString `db:"listing_id"`
	MediaURL  sql.NullString `db:"media_url"`
	IsPrimary sql.NullBool   `db:"is_primary"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

type LocationRow struct {
	ID            sql.NullString `db:"id"`
	Name          sql.NullString `db:"name"`
	Type          sql.NullString `db:"type"`
	ParentID      sql.NullString `db:"parent_id"`
	PropertyCount sql.NullInt64  `db:"property_count"`
}

type ProfileRow struct {
	ID        sql.NullString `db:"id"`
	FullName  sql.NullString `db:"full_name"`
	Phone     sql.NullString `db:"phone"`
	AvatarURL sql.NullString `db:"avatar_url"`
	Company   sql.NullString `db:"company"`
}

var (
	mediaStruct    = database.NewStruct(new(MediaRow))
	locationStruct = database.NewStruct(new(LocationRow))
	profileStruct  = database.NewStruct(new(ProfileRow))
)

// ToMedia converts rows ordered by listing then display order, numbering positions per listing.
func ToMedia(rows []MediaRow) []models.MediaAsset {
	assets := make([]models.MediaAsset, len(rows))
	positions := map[string]int{}
	for i, row := range rows {
		listingID := row.ListingID.String
		assets[i] = models.MediaAsset{
			ID:        row.ID.String,
			ListingID: listingID,
			MediaURL:  row.MediaURL.String,
			IsPrimary: row.IsPrimary.Bool,
			Position:  positions[listingID],
		}
		positions[listingID]++
	}
	return assets
}

func ToLocation(row *LocationRow) models.Location {
	return models.Location{
		ID:            row.ID.String,
		Name:          row.Name.String,
		Type:          models.LocationType(row.Type.String),
		ParentID:      row.ParentID.String,
		PropertyCount: int(row.PropertyCount.Int64),
	}
}

func ToLocations(rows []LocationRow) []models.Location {
	locations := make([]models.Location, len(rows))
	for i := range rows {
		locations[i] = ToLocation(&rows[i])
	}
	return locations
}

func ToProfiles(rows []ProfileRow) []models.AgentProfile {
	profiles := make([]models.AgentProfile, len(rows))
	for i, row := range rows {
		profiles[i] = models.AgentProfile{
			ID:        row.ID.String,
			FullName:  row.FullName.String,
			Phone:     row.Phone.String,
			AvatarURL: row.AvatarURL.String,
			Company:   row.Company.String,
		}
	}
	return profiles
}
