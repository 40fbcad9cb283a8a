package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type promotion struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestJSONBScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want []promotion
	}{
		{"bytes", []byte(`[{"id":"p1","status":"active"}]`), []promotion{{ID: "p1", Status: "active"}}},
		{"string", `[{"id":"p2","status":"expired"}]`, []promotion{{ID: "p2", Status: "expired"}}},
		{"empty array", []byte(`[]`), []promotion{}},
		{"null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var col JSONB[[]promotion]
			require.NoError(t, col.Scan(tt.src))
			assert.Equal(t, tt.want, col.Data)
		})
	}
}

func TestJSONBScanRejectsUnknownSource(t *testing.T) {
	var col JSONB[[]promotion]
	assert.Error(t, col.Scan(42))
	assert.Error(t, col.Scan([]byte(`{not json`)))
}

func TestJSONBValue(t *testing.T) {
	col := JSONB[[]promotion]{Data: []promotion{{ID: "p1", Status: "active"}}}

	value, err := col.Value()

	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","status":"active"}]`, string(value.([]byte)))
}
