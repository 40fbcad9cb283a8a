package listing

import (
	"context"
	"strings"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Create stores a new pending listing. Location counts are adjusted by the store in the same transaction.
func (s *Service) Create(ctx context.Context, input models.NewListing) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.Create")
	defer span.End()

	if err := validateNewListing(input); err != nil {
		return nil, err
	}

	row, err := s.listings.Create(ctx, input)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("user_id", input.UserID).Error("Creating listing failed")
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"id":      row.ID,
		"user_id": row.UserID,
	}).Info("Created listing")

	s.publish(ctx, "listing.created", row.ID, func(events EventPublisher) error {
		return events.ListingCreated(ctx, *row)
	})

	property := s.resolve(ctx, []models.ListingRow{*row})[0]
	return &property, nil
}

// Update edits a listing's fields and replaces its images. Returns clovererrors.ErrNotFound for unknown ids.
func (s *Service) Update(ctx context.Context, id string, input models.NewListing) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.Update")
	defer span.End()

	if err := ValidateID("id", id); err != nil {
		return nil, err
	}
	if err := validateNewListing(input); err != nil {
		return nil, err
	}

	row, err := s.listings.Update(ctx, id, input)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Updating listing failed")
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"id":     id,
		"images": len(input.Images),
	}).Info("Updated listing")

	s.publish(ctx, "listing.updated", id, func(events EventPublisher) error {
		return events.ListingUpdated(ctx, *row)
	})

	property := s.resolve(ctx, []models.ListingRow{*row})[0]
	return &property, nil
}

// UpdateStatus changes a listing's status. Returns clovererrors.ErrNotFound for unknown ids.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Property, error) {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.UpdateStatus")
	defer span.End()

	if err := ValidateID("id", id); err != nil {
		return nil, err
	}
	if !status.IsWritable() {
		return nil, clovererrors.NewValidationError("status", string(status), "unknown listing status")
	}

	row, previous, err := s.listings.UpdateStatus(ctx, id, status)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Updating listing status failed")
		return nil, err
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"id":       id,
		"status":   status,
		"previous": previous,
	}).Info("Updated listing status")

	if previous != status {
		s.publish(ctx, "listing.status_changed", id, func(events EventPublisher) error {
			return events.ListingStatusChanged(ctx, *row, previous)
		})
	}

	property := s.resolve(ctx, []models.ListingRow{*row})[0]
	return &property, nil
}

// Delete removes a listing and its media. Returns clovererrors.ErrNotFound for unknown ids.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracing.StartSpan(ctx, "listing.Service.Delete")
	defer span.End()

	if err := ValidateID("id", id); err != nil {
		return err
	}

	row, err := s.listings.Delete(ctx, id)
	if err != nil {
		tracing.RecordError(ctx, err)
		s.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Deleting listing failed")
		return err
	}

	s.logger.WithContext(ctx).WithField("id", id).Info("Deleted listing")

	s.publish(ctx, "listing.deleted", id, func(events EventPublisher) error {
		return events.ListingDeleted(ctx, *row)
	})
	return nil
}

// publish never fails the write that triggered it.
func (s *Service) publish(ctx context.Context, eventType, id string, emit func(EventPublisher) error) {
	if s.events == nil {
		return
	}
	if err := emit(s.events); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type": eventType,
			"id":         id,
		}).Warn("Publishing listing event failed")
	}
}

func validateNewListing(input models.NewListing) error {
	if err := ValidateID("user_id", input.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(input.Title) == "" {
		return clovererrors.NewValidationError("title", input.Title, "is required")
	}
	if input.Price < 0 {
		return clovererrors.NewValidationError("price", "", "must not be negative")
	}
	if models.ParsePropertyType(string(input.PropertyType)) != input.PropertyType {
		return clovererrors.NewValidationError("property_type", string(input.PropertyType), "unknown property type")
	}
	if input.Purpose != models.PurposeSale && input.Purpose != models.PurposeRent {
		return clovererrors.NewValidationError("purpose", string(input.Purpose), "must be jual or sewa")
	}
	if input.PriceUnit != models.PriceUnitMillion && input.PriceUnit != models.PriceUnitBillion {
		return clovererrors.NewValidationError("price_unit", string(input.PriceUnit), "must be juta or miliar")
	}
	locations := []struct{ field, id string }{
		{"province_id", input.ProvinceID},
		{"city_id", input.CityID},
		{"district_id", input.DistrictID},
	}
	for _, location := range locations {
		if location.id == "" {
			continue
		}
		if err := ValidateID(location.field, location.id); err != nil {
			return err
		}
	}
	for _, image := range input.Images {
		if strings.TrimSpace(image) == "" {
			return clovererrors.NewValidationError("images", image, "must not contain blank urls")
		}
	}
	return nil
}
