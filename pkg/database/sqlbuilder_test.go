package database

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestArrayContains(t *testing.T) {
	sb := NewSelectBuilder()
	sb.Select("id").From("listings")
	sb.Where(ArrayContains(sb, "features", []string{"pool", "garden"}))

	stmt, args := sb.Build()

	assert.Equal(t, "SELECT id FROM listings WHERE features @> $1", stmt)
	assert.Equal(t, []any{pq.StringArray{"pool", "garden"}}, args)
}

func TestAdjustCounter(t *testing.T) {
	ub := NewUpdateBuilder()
	ub.Update("locations").Set(AdjustCounter(ub, "property_count", -1))
	ub.Where(ub.Equal("id", "loc-1"))

	stmt, args := ub.Build()

	assert.Equal(t, "UPDATE locations SET property_count = GREATEST(property_count + $1, 0) WHERE id = $2", stmt)
	assert.Equal(t, []any{-1, "loc-1"}, args)
}
