package listing

import (
	"github.com/google/uuid"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
)

// ValidateID accepts only the canonical 36 character form of an RFC 4122 UUID, versions 1 to 5.
func ValidateID(field, id string) error {
	if len(id) != 36 {
		return clovererrors.NewValidationError(field, id, "must be a canonical UUID")
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return clovererrors.NewValidationError(field, id, "must be a canonical UUID")
	}
	if parsed.Variant() != uuid.RFC4122 {
		return clovererrors.NewValidationError(field, id, "must be an RFC 4122 UUID")
	}
	if v := parsed.Version(); v < 1 || v > 5 {
		return clovererrors.NewValidationErrorf(field, id, "unsupported UUID version %d", v)
	}
	return nil
}
