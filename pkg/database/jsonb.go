package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB scans a json/jsonb column into T. NULL leaves the zero value.
type JSONB[T any] struct {
	Data T
}

func (p *JSONB[T]) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		var zero T
		p.Data = zero
		return nil
	case []byte:
		b = v
	case string:
		// pgx returns json columns as string
		b = []byte(v)
	default:
		return fmt.Errorf("JSONB.Scan: expected []byte or string, got %T", src)
	}
	return json.Unmarshal(b, &p.Data)
}

func (p JSONB[T]) Value() (driver.Value, error) {
	return json.Marshal(p.Data)
}
