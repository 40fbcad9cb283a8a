// Package listing is the listing retrieval pipeline: query, batched enrichment, premium merge
// and mapping, with transient backend failures degraded to empty results.
package listing

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/clover/pkg/enrichment"
	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/premium"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const defaultMergeConcurrency = 8

type Service struct {
	listings ListingStore
	resolver BatchResolver
	plans    PlanCatalog
	events   EventPublisher
	logger   ectologger.Logger

	now              func() time.Time
	mergeConcurrency int
	inflight         sync.WaitGroup
}

type Option func(*Service)

// WithClock overrides the clock used for promotion validity.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithEvents(events EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithMergeConcurrency bounds the goroutines merging and mapping rows of one page.
func WithMergeConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.mergeConcurrency = n
		}
	}
}

func NewService(listings ListingStore, resolver BatchResolver, plans PlanCatalog, logger ectologger.Logger, opts ...Option) *Service {
	s := &Service{
		listings:         listings,
		resolver:         resolver,
		plans:            plans,
		logger:           logger,
		now:              time.Now,
		mergeConcurrency: defaultMergeConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListPage returns one page of resolved listings and the total match count. A network failure
// while querying yields an empty page with a zero count and no error.
func (s *Service) ListPage(ctx context.Context, filters query.Filters, page, pageSize int) (models.Page, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.ListPage")
	defer span.End()
	start := time.Now()

	q := query.Build(filters, page, pageSize)
	result := models.Page{
		Items:    []models.Property{},
		Page:     q.Page,
		PageSize: q.PageSize,
	}

	rows, total, err := s.listings.Search(ctx, q)
	if err != nil {
		if clovererrors.IsNetworkError(err) {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"page":      q.Page,
				"page_size": q.PageSize,
				"sort":      q.Sort,
			}).Warn("Listing search unreachable, returning empty page")
			metrics.RecordPipeline("list_page", metrics.OutcomeDegraded, time.Since(start).Seconds())
			return result, nil
		}
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).Error("Listing search failed")
		metrics.RecordPipeline("list_page", metrics.OutcomeFailed, time.Since(start).Seconds())
		return models.Page{}, err
	}

	result.Items = s.resolve(ctx, rows)
	result.TotalCount = total

	metrics.RecordPipeline("list_page", metrics.OutcomeSuccess, time.Since(start).Seconds())
	return result, nil
}

// GetByID returns nil, nil when the listing does not exist or the backend is unreachable.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.GetByID")
	defer span.End()
	start := time.Now()

	if err := ValidateID("id", id); err != nil {
		metrics.RecordPipeline("get_by_id", metrics.OutcomeRejected, time.Since(start).Seconds())
		return nil, err
	}

	row, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if clovererrors.IsNetworkError(err) {
			s.logger.WithContext(ctx).WithError(err).WithField("id", id).Warn("Listing lookup unreachable, treating as not found")
			metrics.RecordPipeline("get_by_id", metrics.OutcomeDegraded, time.Since(start).Seconds())
			return nil, nil
		}
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Listing lookup failed")
		metrics.RecordPipeline("get_by_id", metrics.OutcomeFailed, time.Since(start).Seconds())
		return nil, err
	}
	if row == nil {
		metrics.RecordPipeline("get_by_id", metrics.OutcomeSuccess, time.Since(start).Seconds())
		return nil, nil
	}

	property := s.resolve(ctx, []models.ListingRow{*row})[0]
	metrics.RecordPipeline("get_by_id", metrics.OutcomeSuccess, time.Since(start).Seconds())
	return &property, nil
}

// ListUserListings returns the owner's dashboard summaries, newest first.
func (s *Service) ListUserListings(ctx context.Context, userID string) ([]models.UserListing, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.ListUserListings")
	defer span.End()
	start := time.Now()

	if err := ValidateID("user_id", userID); err != nil {
		metrics.RecordPipeline("user_listings", metrics.OutcomeRejected, time.Since(start).Seconds())
		return nil, err
	}

	rows, err := s.listings.ListByUser(ctx, userID)
	if err != nil {
		if clovererrors.IsNetworkError(err) {
			s.logger.WithContext(ctx).WithError(err).WithField("user_id", userID).Warn("User listings unreachable, returning none")
			metrics.RecordPipeline("user_listings", metrics.OutcomeDegraded, time.Since(start).Seconds())
			return []models.UserListing{}, nil
		}
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("user_id", userID).Error("User listings query failed")
		metrics.RecordPipeline("user_listings", metrics.OutcomeFailed, time.Since(start).Seconds())
		return nil, err
	}

	batch := s.resolver.ResolveWith(ctx, rows, enrichment.LookupMedia|enrichment.LookupLocations)
	now := s.now()
	listings := make([]models.UserListing, len(rows))
	for i, row := range rows {
		listings[i] = ToUserListing(row, batch.For(row), now)
	}

	metrics.RecordPipeline("user_listings", metrics.OutcomeSuccess, time.Since(start).Seconds())
	return listings, nil
}

// RecordView increments the view counter in the background. Malformed ids are dropped
// without a backend call; failures are logged and never returned.
func (s *Service) RecordView(ctx context.Context, id string) {
	s.recordCounter(ctx, "views", id, s.listings.IncrementViews)
}

// RecordInquiry increments the inquiry counter in the background, like RecordView.
func (s *Service) RecordInquiry(ctx context.Context, id string) {
	s.recordCounter(ctx, "inquiries", id, s.listings.IncrementInquiries)
}

func (s *Service) recordCounter(ctx context.Context, counter, id string, increment func(context.Context, string) error) {
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"counter": counter,
		"id":      id,
	})

	if err := ValidateID("id", id); err != nil {
		log.WithError(err).Warn("Skipping counter increment for malformed listing id")
		metrics.RecordCounterIncrement(counter, metrics.OutcomeRejected)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, span := tracing.StartSpan(context.WithoutCancel(ctx), "listing.Service.recordCounter")
		defer span.End()

		if err := increment(ctx, id); err != nil {
			var pqErr *pq.Error
			if clovererrors.As(err, &pqErr) && pqErr.Code == "22P02" {
				log.WithError(err).Error("Counter increment rejected the listing id format")
			} else {
				log.WithError(err).Error("Counter increment failed")
			}
			metrics.RecordCounterIncrement(counter, metrics.OutcomeFailed)
			return
		}
		metrics.RecordCounterIncrement(counter, metrics.OutcomeSuccess)
	}()
}

// Drain waits for in-flight counter increments or until ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// resolve enriches rows and merges promotions. Lookups and the plan catalog are fetched
// concurrently, once for the whole page; rows are then merged in parallel keeping their order.
func (s *Service) resolve(ctx context.Context, rows []models.ListingRow) []models.Property {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.resolve")
	defer span.End()

	properties := make([]models.Property, len(rows))
	if len(rows) == 0 {
		return properties
	}

	var batch *enrichment.Batch
	var catalog premium.Catalog

	var fetch errgroup.Group
	fetch.Go(func() error {
		batch = s.resolver.ResolveWith(ctx, rows, enrichment.LookupAll)
		return nil
	})
	fetch.Go(func() error {
		catalog = s.catalog(ctx)
		return nil
	})
	_ = fetch.Wait()

	now := s.now()
	var merge errgroup.Group
	merge.SetLimit(s.mergeConcurrency)
	for i := range rows {
		merge.Go(func() error {
			row := rows[i]
			promotion := premium.Merge(row.Promotions, catalog, now)
			if premium.IsFallback(promotion) {
				metrics.RecordPromotionFallback()
				s.logger.WithContext(ctx).WithFields(map[string]any{
					"listing_id":   row.ID,
					"promotion_id": promotion.ID,
					"plan_id":      promotion.PlanID,
				}).Warn("Active promotion references an unknown plan, using raw promotion fields")
			}
			properties[i] = ToProperty(row, batch.For(row), promotion)
			return nil
		})
	}
	_ = merge.Wait()

	return properties
}

func (s *Service) catalog(ctx context.Context) premium.Catalog {
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		metrics.RecordEnrichmentFailure("plans")
		s.logger.WithContext(ctx).WithError(err).Error("Loading promotion plans failed, continuing with an empty catalog")
		return premium.Catalog{}
	}
	return premium.NewCatalog(plans)
}
