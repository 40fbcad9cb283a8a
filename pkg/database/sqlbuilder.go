package database

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"
)

// Flavor is the SQL dialect every builder in this service renders.
var Flavor = sqlbuilder.PostgreSQL

func NewSelectBuilder() *sqlbuilder.SelectBuilder {
	return Flavor.NewSelectBuilder()
}

func NewInsertBuilder() *sqlbuilder.InsertBuilder {
	return Flavor.NewInsertBuilder()
}

func NewUpdateBuilder() *sqlbuilder.UpdateBuilder {
	return Flavor.NewUpdateBuilder()
}

func NewDeleteBuilder() *sqlbuilder.DeleteBuilder {
	return Flavor.NewDeleteBuilder()
}

func NewStruct(v any) *sqlbuilder.Struct {
	return sqlbuilder.NewStruct(v).For(Flavor)
}

// Binder is implemented by every go-sqlbuilder builder.
type Binder interface {
	Var(arg any) string
}

// ArrayContains renders "column @> $n" for a text[] column.
func ArrayContains(b Binder, column string, values []string) string {
	return fmt.Sprintf("%s @> %s", column, b.Var(pq.StringArray(values)))
}

// AdjustCounter renders "column = GREATEST(column + $n, 0)" for counters that must not go negative.
func AdjustCounter(b Binder, column string, delta int) string {
	return fmt.Sprintf("%s = GREATEST(%s + %s, 0)", column, column, b.Var(delta))
}
