package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plan"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// comparisons maps the binary operators onto their SQL form.
var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one predicate. ArgName overrides the bind name when the same column
// appears twice in a statement, e.g. in both SET and WHERE.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq"`
	Table    string
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName != "" {
		return f.ArgName
	}

	return f.Field
}

// GetWhereClause renders the predicate with named binds. Unknown operators render nothing.
func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	column, name := f.column(), f.argName()

	if sign, ok := comparisons[f.Operator]; ok {
		args[name] = f.Value

		return fmt.Sprintf("%s %s :%s", column, sign, name), args
	}

	switch f.Operator {
	case FilterOperatorLike:
		args[name] = fmt.Sprintf("%%%v%%", f.Value)

		return fmt.Sprintf("LOWER(%s) LIKE LOWER(:%s)", column, name), args
	case FilterOperatorIn:
		return f.inClause(column, name, args)
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return "(" + query + ")", args
	case FilterIsNotNull:
		return column + " IS NOT NULL", args
	case FilterIsNull:
		return column + " IS NULL", args
	}

	return "", args
}

// inClause expands a slice into one bind per element. An empty slice matches nothing.
func (f *Filter) inClause(column, name string, args map[string]any) (string, map[string]any) {
	values := reflect.ValueOf(f.Value)

	if values.Kind() != reflect.Slice && values.Kind() != reflect.Array {
		return fmt.Sprintf("%s IN (%v)", column, f.Value), args
	}

	if values.Len() == 0 {
		return "FALSE", args
	}

	binds := make([]string, values.Len())

	for i := range values.Len() {
		key := fmt.Sprintf("%s_%d", name, i)
		args[key] = values.Index(i).Interface()
		binds[i] = ":" + key
	}

	return fmt.Sprintf("%s IN (%s)", column, strings.Join(binds, ", ")), args
}

// FilterGroup joins Filters and nested FilterGroups with Operator (AND when empty).
type FilterGroup struct {
	Filters  []any
	Operator string
}

// GetWhereClause renders the group. Members that render nothing, such as empty nested
// groups, are left out so they never produce dangling operators.
func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	parts := make([]string, 0, len(f.Filters))

	for _, member := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch m := member.(type) {
		case Filter:
			where, arg = m.GetWhereClause()
		case FilterGroup:
			where, arg = m.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		parts = append(parts, where)
		maps.Copy(args, arg)
	}

	if len(parts) == 0 {
		return "", args
	}

	operator := f.Operator
	if operator == "" {
		operator = FilterGroupOperatorAnd
	}

	return "(" + strings.Join(parts, " "+operator+" ") + ")", args
}
