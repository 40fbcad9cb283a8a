package listing

import (
	"context"
	"database/sql"
	"slices"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Ramsey-B/clover/pkg/database"
	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/query"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// LocationCounter adjusts location property counts on the transaction carried by ctx.
type LocationCounter interface {
	AdjustCounts(ctx context.Context, ids []string, delta int) error
}

// Repository implements listing.ListingStore. Driver errors are wrapped, never converted, so
// callers can still classify them.
type Repository struct {
	db        database.DB
	locations LocationCounter
	logger    ectologger.Logger
}

func NewRepository(db database.DB, locations LocationCounter, logger ectologger.Logger) *Repository {
	return &Repository{
		db:        db,
		locations: locations,
		logger:    logger,
	}
}

// Search returns the page window for q and the number of rows matching its filters.
func (r *Repository) Search(ctx context.Context, q query.Query) ([]models.ListingRow, int, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.Search")
	defer span.End()

	stmt, args := q.SelectPage(listingsTable, selectColumns()...).Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"sort":      q.Sort,
		"page":      q.Page,
		"page_size": q.PageSize,
	}).Debug("Searching listings")

	var rows []ListingRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying listings page")
	}

	countStmt, countArgs := q.SelectCount(listingsTable).Build()
	var total int
	if err := r.db.GetContext(ctx, &total, countStmt, countArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "counting listings")
	}

	return ToListings(rows), total, nil
}

// GetByID returns nil, nil when no listing has the id.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.ListingRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.GetByID")
	defer span.End()

	r.logger.WithContext(ctx).WithField("id", id).Debug("Getting listing by ID")

	row, err := r.get(ctx, r.db, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "querying listing")
	}
	return row, nil
}

// ListByUser returns every listing owned by userID, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]models.ListingRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.ListByUser")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select(selectColumns()...).From(listingsTable)
	sb.Where(sb.Equal("user_id", userID))
	sb.OrderBy("created_at DESC", "id ASC")

	stmt, args := sb.Build()

	r.logger.WithContext(ctx).WithField("user_id", userID).Debug("Listing user listings")

	var rows []ListingRow
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "querying user listings")
	}
	return ToListings(rows), nil
}

// IncrementViews bumps the view counter and the active promotion's view analytics.
func (r *Repository) IncrementViews(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.IncrementViews")
	defer span.End()

	if _, err := r.db.ExecContext(ctx, "SELECT increment_listing_views($1)", id); err != nil {
		return errors.Wrap(err, "incrementing listing views")
	}
	return nil
}

// IncrementInquiries bumps the inquiry counter and the active promotion's inquiry analytics.
func (r *Repository) IncrementInquiries(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.IncrementInquiries")
	defer span.End()

	if _, err := r.db.ExecContext(ctx, "SELECT increment_listing_inquiries($1)", id); err != nil {
		return errors.Wrap(err, "incrementing listing inquiries")
	}
	return nil
}

// Create inserts a pending listing with its media and counts it toward its locations.
func (r *Repository) Create(ctx context.Context, listing models.NewListing) (*models.ListingRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.Create")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning listing insert")
	}
	defer tx.Rollback(ctx)

	id := uuid.New().String()
	ib := database.NewInsertBuilder()
	ib.InsertInto(listingsTable).Cols(insertColumns...).Values(insertValues(id, listing, Now())...)
	stmt, args := ib.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      id,
		"user_id": listing.UserID,
	}).Debug("Creating listing")

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "inserting listing")
	}

	if err := r.insertMedia(ctx, tx, id, listing.Images); err != nil {
		return nil, err
	}

	row, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reading inserted listing")
	}

	if models.ListingStatus(row.Status).CountsTowardLocation() {
		if err := r.locations.AdjustCounts(ctx, row.LocationIDs(), 1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "committing listing insert")
	}
	return row, nil
}

// Update replaces the editable fields and the media of a listing. When a counted listing moves
// to other locations, the old locations are uncounted and the new ones counted.
func (r *Repository) Update(ctx context.Context, id string, listing models.NewListing) (*models.ListingRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.Update")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning listing update")
	}
	defer tx.Rollback(ctx)

	status, err := r.lock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	previous, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reading listing before update")
	}

	ub := database.NewUpdateBuilder()
	ub.Update(listingsTable)
	values := updateValues(listing, Now())
	assignments := make([]string, len(updateAssignments))
	for i, column := range updateAssignments {
		assignments[i] = ub.Assign(column, values[i])
	}
	ub.Set(assignments...)
	ub.Where(ub.Equal("id", id))
	stmt, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":     id,
		"images": len(listing.Images),
	}).Debug("Updating listing")

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "updating listing")
	}

	oldLocations, newLocations := previous.LocationIDs(), listing.LocationIDs()
	if status.CountsTowardLocation() && !slices.Equal(oldLocations, newLocations) {
		if err := r.locations.AdjustCounts(ctx, oldLocations, -1); err != nil {
			return nil, err
		}
		if err := r.locations.AdjustCounts(ctx, newLocations, 1); err != nil {
			return nil, err
		}
	}

	if err := r.deleteMedia(ctx, tx, id); err != nil {
		return nil, err
	}
	if err := r.insertMedia(ctx, tx, id, listing.Images); err != nil {
		return nil, err
	}

	row, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reading updated listing")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "committing listing update")
	}
	return row, nil
}

// UpdateStatus sets status and updated_at. Location counts follow the listing in or out of
// the counted statuses.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (*models.ListingRow, models.ListingStatus, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.UpdateStatus")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "beginning listing status update")
	}
	defer tx.Rollback(ctx)

	previous, err := r.lock(ctx, tx, id)
	if err != nil {
		return nil, "", err
	}

	ub := database.NewUpdateBuilder()
	ub.Update(listingsTable).Set(
		ub.Assign("status", string(status)),
		ub.Assign("updated_at", Now()),
	)
	ub.Where(ub.Equal("id", id))
	stmt, args := ub.Build()

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":       id,
		"status":   status,
		"previous": previous,
	}).Debug("Updating listing status")

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, "", errors.Wrap(err, "updating listing status")
	}

	row, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading updated listing")
	}

	if delta := countDelta(previous, status); delta != 0 {
		if err := r.locations.AdjustCounts(ctx, row.LocationIDs(), delta); err != nil {
			return nil, "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, "", errors.Wrap(err, "committing listing status update")
	}
	return row, previous, nil
}

// Delete removes the listing's media, then the listing, and uncounts it from its locations.
func (r *Repository) Delete(ctx context.Context, id string) (*models.ListingRow, error) {
	ctx, span := tracing.StartSpan(ctx, "ListingRepository.Delete")
	defer span.End()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning listing delete")
	}
	defer tx.Rollback(ctx)

	status, err := r.lock(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	row, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, errors.Wrap(err, "reading listing before delete")
	}

	r.logger.WithContext(ctx).WithField("id", id).Debug("Deleting listing")

	if err := r.deleteMedia(ctx, tx, id); err != nil {
		return nil, err
	}

	lb := database.NewDeleteBuilder()
	lb.DeleteFrom(listingsTable)
	lb.Where(lb.Equal("id", id))
	stmt, args := lb.Build()
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, errors.Wrap(err, "deleting listing")
	}

	if status.CountsTowardLocation() {
		if err := r.locations.AdjustCounts(ctx, row.LocationIDs(), -1); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "committing listing delete")
	}
	return row, nil
}

func (r *Repository) insertMedia(ctx context.Context, q database.Querier, listingID string, images []string) error {
	rows := mediaValues(listingID, images, Now())
	if len(rows) == 0 {
		return nil
	}

	ib := database.NewInsertBuilder()
	ib.InsertInto(mediaTable).Cols(mediaColumns...)
	for _, values := range rows {
		ib.Values(values...)
	}
	stmt, args := ib.Build()
	if _, err := q.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "inserting listing media")
	}
	return nil
}

func (r *Repository) deleteMedia(ctx context.Context, q database.Querier, listingID string) error {
	mb := database.NewDeleteBuilder()
	mb.DeleteFrom(mediaTable)
	mb.Where(mb.Equal("listing_id", listingID))
	stmt, args := mb.Build()
	if _, err := q.ExecContext(ctx, stmt, args...); err != nil {
		return errors.Wrap(err, "deleting listing media")
	}
	return nil
}

func (r *Repository) get(ctx context.Context, q database.Querier, id string) (*models.ListingRow, error) {
	sb := database.NewSelectBuilder()
	sb.Select(selectColumns()...).From(listingsTable)
	sb.Where(sb.Equal("id", id))
	stmt, args := sb.Build()

	var row ListingRow
	if err := q.GetContext(ctx, &row, stmt, args...); err != nil {
		return nil, err
	}
	return ToListing(&row), nil
}

// lock takes a row lock on the listing for the rest of the transaction and returns its status.
func (r *Repository) lock(ctx context.Context, q database.Querier, id string) (models.ListingStatus, error) {
	var status string
	err := q.GetContext(ctx, &status, "SELECT status FROM listings WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", clovererrors.ErrNotFound
		}
		return "", errors.Wrap(err, "locking listing")
	}
	return models.ListingStatus(status), nil
}

func countDelta(previous, next models.ListingStatus) int {
	switch {
	case previous.CountsTowardLocation() && !next.CountsTowardLocation():
		return -1
	case !previous.CountsTowardLocation() && next.CountsTowardLocation():
		return 1
	default:
		return 0
	}
}
