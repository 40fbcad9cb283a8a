package enrichment

import (
	"github.com/Ramsey-B/clover/pkg/models"
)

// Batch holds the id-keyed lookup tables for one page of listings. It is read-only once built.
type Batch struct {
	media        map[string][]models.MediaAsset
	locations    map[string]models.Location
	profiles     map[string]models.AgentProfile
	defaultImage string

	// Failures names the lookups that degraded to empty results.
	Failures []string
}

// Resolved is everything a single listing needs from the lookup tables.
type Resolved struct {
	Images   []string
	Province string
	City     string
	District string
	Agent    models.Agent
}

// ImageList is Images, or the default image when there are none.
func (r Resolved) ImageList() []string {
	if len(r.Images) == 0 {
		return []string{DefaultImageURL}
	}
	return r.Images
}

// PrimaryImage is the designated primary image, else the first, else the default.
func (r Resolved) PrimaryImage() string {
	return r.ImageList()[0]
}

func (b *Batch) For(row models.ListingRow) Resolved {
	return Resolved{
		Images:   b.Images(row.ID),
		Province: b.LocationName(row.ProvinceID),
		City:     b.LocationName(row.CityID),
		District: b.LocationName(row.DistrictID),
		Agent:    b.Agent(row.UserID),
	}
}

// Images is never empty.
func (b *Batch) Images(listingID string) []string {
	assets := b.media[listingID]
	images := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset.MediaURL != "" {
			images = append(images, asset.MediaURL)
		}
	}
	if len(images) == 0 {
		return []string{b.defaultImage}
	}
	return images
}

// LocationName is "" when id is empty or unresolved.
func (b *Batch) LocationName(id string) string {
	if id == "" {
		return ""
	}
	return b.locations[id].Name
}

func (b *Batch) Agent(userID string) models.Agent {
	profile, ok := b.profiles[userID]
	agent := models.Agent{
		ID:   userID,
		Name: DefaultAgentName,
	}
	if !ok {
		return agent
	}
	if profile.FullName != "" {
		agent.Name = profile.FullName
	}
	agent.Phone = profile.Phone
	agent.Avatar = profile.AvatarURL
	agent.Company = profile.Company
	return agent
}

func (b *Batch) Degraded() bool {
	return len(b.Failures) > 0
}
