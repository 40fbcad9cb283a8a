// Package premium merges a listing's promotion records with the plan catalog.
package premium

import (
	"math"
	"time"

	"github.com/Ramsey-B/clover/pkg/models"
)

const maxPrecision = 4

// Catalog is the plan catalog keyed by plan id. Built once per pipeline invocation and never mutated.
type Catalog map[string]models.PromotionPlan

func NewCatalog(plans []models.PromotionPlan) Catalog {
	catalog := make(Catalog, len(plans))
	for _, plan := range plans {
		catalog[plan.ID] = plan
	}
	return catalog
}

// IsActive reports status active with an end date strictly after now.
func IsActive(record models.PromotionRecord, now time.Time) bool {
	return record.Status == models.PromotionStatusActive && record.EndDate.After(now)
}

// Active returns the first active record.
func Active(records []models.PromotionRecord, now time.Time) (models.PromotionRecord, bool) {
	for _, record := range records {
		if IsActive(record, now) {
			return record, true
		}
	}
	return models.PromotionRecord{}, false
}

// Merge returns the detail of the active promotion, or nil when none is active.
// When the plan is missing from catalog the detail is built from the raw record and Plan is nil.
func Merge(records []models.PromotionRecord, catalog Catalog, now time.Time) *models.PromotionDetail {
	record, ok := Active(records, now)
	if !ok {
		return nil
	}

	detail := &models.PromotionDetail{
		ID:            record.ID,
		PropertyID:    record.PropertyID,
		UserID:        record.UserID,
		PlanID:        record.PlanID,
		Status:        record.Status,
		StartDate:     record.StartDate,
		EndDate:       record.EndDate,
		PaymentID:     record.PaymentID,
		DaysRemaining: DaysRemaining(record.EndDate, now),
		Analytics: models.PromotionAnalytics{
			Views:          intOrZero(record.AnalyticsViews),
			Inquiries:      intOrZero(record.AnalyticsInquiries),
			Favorites:      intOrZero(record.AnalyticsFavorites),
			ConversionRate: floatOrZero(record.AnalyticsConversionRate),
		},
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}

	plan, ok := catalog[record.PlanID]
	if !ok {
		return detail
	}

	detail.Plan = &models.PlanSummary{
		Name:     plan.Name,
		Features: plan.Features,
	}
	detail.Analytics.ConversionRate = conversionRate(record, detail.Analytics, plan)
	return detail
}

// IsFallback reports a detail built without its plan.
func IsFallback(detail *models.PromotionDetail) bool {
	return detail != nil && detail.Plan == nil
}

// DaysRemaining rounds the time left up to whole days and never goes below zero.
func DaysRemaining(end, now time.Time) int {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

func conversionRate(record models.PromotionRecord, analytics models.PromotionAnalytics, plan models.PromotionPlan) float64 {
	precision := plan.AnalyticsPrecision
	if precision < 0 {
		precision = 0
	}
	if precision > maxPrecision {
		precision = maxPrecision
	}

	switch {
	case record.AnalyticsConversionRate != nil:
		return round(*record.AnalyticsConversionRate, precision)
	case plan.DeriveConversion && analytics.Views > 0:
		return round(float64(analytics.Inquiries)/float64(analytics.Views)*100, precision)
	default:
		return 0
	}
}

func round(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
