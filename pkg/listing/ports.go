package listing

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/enrichment"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/query"
)

// ListingStore is the listings table. Reads return the driver error unchanged in kind so it can be classified.
type ListingStore interface {
	// Search returns the page window and the unpaginated match count.
	Search(ctx context.Context, q query.Query) ([]models.ListingRow, int, error)
	// GetByID returns nil, nil when the listing does not exist.
	GetByID(ctx context.Context, id string) (*models.ListingRow, error)
	ListByUser(ctx context.Context, userID string) ([]models.ListingRow, error)
	IncrementViews(ctx context.Context, id string) error
	IncrementInquiries(ctx context.Context, id string) error

	Create(ctx context.Context, listing models.NewListing) (*models.ListingRow, error)
	// Update replaces the editable fields and media; status and owner are unchanged.
	Update(ctx context.Context, id string, listing models.NewListing) (*models.ListingRow, error)
	// UpdateStatus returns the updated row and the status it replaced.
	UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (*models.ListingRow, models.ListingStatus, error)
	// Delete returns the deleted row.
	Delete(ctx context.Context, id string) (*models.ListingRow, error)
}

type PlanCatalog interface {
	ListPlans(ctx context.Context) ([]models.PromotionPlan, error)
}

type BatchResolver interface {
	ResolveWith(ctx context.Context, rows []models.ListingRow, lookups enrichment.Lookup) *enrichment.Batch
}

// EventPublisher receives listing lifecycle events after the write commits.
type EventPublisher interface {
	ListingCreated(ctx context.Context, row models.ListingRow) error
	ListingUpdated(ctx context.Context, row models.ListingRow) error
	ListingStatusChanged(ctx context.Context, row models.ListingRow, previous models.ListingStatus) error
	ListingDeleted(ctx context.Context, row models.ListingRow) error
}
