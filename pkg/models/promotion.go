package models

import "time"

type PromotionStatus string

const (
	PromotionStatusActive    PromotionStatus = "active"
	PromotionStatusExpired   PromotionStatus = "expired"
	PromotionStatusCancelled PromotionStatus = "cancelled"
)

// PromotionRecord is a premium_listings row as aggregated onto its listing.
type PromotionRecord struct {
	ID                      string          `json:"id"`
	PropertyID              string          `json:"property_id"`
	UserID                  string          `json:"user_id"`
	PlanID                  string          `json:"plan_id"`
	Status                  PromotionStatus `json:"status"`
	StartDate               time.Time       `json:"start_date"`
	EndDate                 time.Time       `json:"end_date"`
	PaymentID               string          `json:"payment_id"`
	AnalyticsViews          *int            `json:"analytics_views"`
	AnalyticsInquiries      *int            `json:"analytics_inquiries"`
	AnalyticsFavorites      *int            `json:"analytics_favorites"`
	AnalyticsConversionRate *float64        `json:"analytics_conversion_rate"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// PromotionPlan is a premium plan from the catalog.
type PromotionPlan struct {
	ID           string
	Name         string
	Price        float64
	DurationDays int
	Features     []string
	// AnalyticsPrecision is the number of decimals the conversion rate is rounded to.
	AnalyticsPrecision int
	// DeriveConversion computes inquiries/views*100 when no rate is stored.
	DeriveConversion bool
	IsActive         bool
}

type PromotionAnalytics struct {
	Views          int     `json:"views"`
	Inquiries      int     `json:"inquiries"`
	Favorites      int     `json:"favorites"`
	ConversionRate float64 `json:"conversion_rate"`
}

type PlanSummary struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

type PromotionDetail struct {
	ID            string             `json:"id"`
	PropertyID    string             `json:"property_id"`
	UserID        string             `json:"user_id"`
	PlanID        string             `json:"plan_id"`
	Plan          *PlanSummary       `json:"plan,omitempty"`
	Status        PromotionStatus    `json:"status"`
	StartDate     time.Time          `json:"start_date"`
	EndDate       time.Time          `json:"end_date"`
	PaymentID     string             `json:"payment_id"`
	DaysRemaining int                `json:"days_remaining"`
	Analytics     PromotionAnalytics `json:"analytics"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
