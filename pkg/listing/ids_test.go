package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	clovererrors "github.com/Ramsey-B/clover/pkg/errors"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"3b241101-e2bb-4255-8caf-4136c566a962", true},
		{"3B241101-E2BB-4255-8CAF-4136C566A962", true},
		{"", false},
		{"not-a-uuid", false},
		{"3b241101e2bb42558caf4136c566a962", false},
		{"{3b241101-e2bb-4255-8caf-4136c566a962}", false},
		{"3b241101-e2bb-4255-8caf-4136c566a96z", false},
		{"3b241101-e2bb-7255-8caf-4136c566a962", false},
		{"3b241101-e2bb-4255-ccaf-4136c566a962", false},
		{"00000000-0000-0000-0000-000000000000", false},
	}

	for _, tt := range tests {
		err := ValidateID("id", tt.id)
		if tt.valid {
			assert.NoError(t, err, tt.id)
			continue
		}
		assert.True(t, clovererrors.IsValidationError(err), tt.id)
	}
}
