package models

type LocationType string

const (
	LocationTypeProvince LocationType = "provinsi"
	LocationTypeCity     LocationType = "kota"
	LocationTypeDistrict LocationType = "kecamatan"
)

type Location struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          LocationType `json:"type"`
	ParentID      string       `json:"parent_id,omitempty"`
	PropertyCount int          `json:"property_count"`
}

type AgentProfile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
	Company   string `json:"company"`
}

type MediaAsset struct {
	ID        string
	ListingID string
	MediaURL  string
	IsPrimary bool
	Position  int
}
