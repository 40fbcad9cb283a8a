package models

import "time"

type PropertyLocation struct {
	Province   string `json:"province"`
	City       string `json:"city"`
	District   string `json:"district"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code,omitempty"`
}

type Agent struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Avatar  string `json:"avatar,omitempty"`
	Company string `json:"company,omitempty"`
}

// Property is the fully resolved listing returned to callers.
type Property struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Price          float64          `json:"price"`
	PriceUnit      string           `json:"price_unit"`
	Type           PropertyType     `json:"type"`
	Purpose        string           `json:"purpose"`
	Bedrooms       *int             `json:"bedrooms,omitempty"`
	Bathrooms      *int             `json:"bathrooms,omitempty"`
	BuildingSize   *float64         `json:"building_size,omitempty"`
	LandSize       *float64         `json:"land_size,omitempty"`
	Floors         *int             `json:"floors,omitempty"`
	Location       PropertyLocation `json:"location"`
	Images         []string         `json:"images"`
	Features       []string         `json:"features"`
	Agent          Agent            `json:"agent"`
	CreatedAt      time.Time        `json:"created_at"`
	IsPromoted     bool             `json:"is_promoted"`
	Status         ListingStatus    `json:"status"`
	Views          int              `json:"views"`
	Inquiries      int              `json:"inquiries"`
	PremiumDetails *PromotionDetail `json:"premium_details,omitempty"`
}

type UserListingStatus string

const (
	UserListingActive   UserListingStatus = "active"
	UserListingPending  UserListingStatus = "pending"
	UserListingInactive UserListingStatus = "inactive"
	UserListingExpired  UserListingStatus = "expired"
)

// UserListing is the owner's dashboard summary of one listing.
type UserListing struct {
	ID               string            `json:"id"`
	Title            string            `json:"title"`
	Type             PropertyType      `json:"type"`
	Purpose          string            `json:"purpose"`
	Price            float64           `json:"price"`
	PriceUnit        string            `json:"price_unit"`
	Status           UserListingStatus `json:"status"`
	IsPremium        bool              `json:"is_premium"`
	PremiumExpiresAt *time.Time        `json:"premium_expires_at,omitempty"`
	Views            int               `json:"views"`
	Inquiries        int               `json:"inquiries"`
	CreatedAt        time.Time         `json:"created_at"`
	Image            string            `json:"image"`
	City             string            `json:"city"`
	Province         string            `json:"province"`
	Bedrooms         *int              `json:"bedrooms,omitempty"`
	Bathrooms        *int              `json:"bathrooms,omitempty"`
	BuildingSize     *float64          `json:"building_size,omitempty"`
	LandSize         *float64          `json:"land_size,omitempty"`
}

type Page struct {
	Items      []Property `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}
