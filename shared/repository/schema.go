package repository

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// joiner is implemented by models whose reads pull columns from another table.
type joiner interface {
	GetJoinQuery() string
}

type column struct {
	table string
	name  string
	alias string
}

func (c column) selectExpr() string {
	expr := c.table + "." + c.name
	if c.alias != "" {
		expr += " AS " + c.alias
	}

	return expr
}

// schema is the table layout derived once from a model's struct tags.
//
//	db:"x"                     column x of the model's own table, inserted and selected
//	db:"x" table:"t" column:"y" selected as t.y AS x, never inserted
type schema struct {
	table    string
	primary  string
	join     string
	columns  []column
	writable []string
}

func describe[T any](table, primary string) schema {
	var zero T

	s := schema{table: table, primary: primary}
	s.collect(reflect.TypeOf(zero))

	if j, ok := any(zero).(joiner); ok {
		s.join = j.GetJoinQuery()
	}

	return s
}

func (s *schema) collect(typ reflect.Type) {
	for i := range typ.NumField() {
		field := typ.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			s.collect(field.Type)

			continue
		}

		name := field.Tag.Get("db")
		if name == "" {
			continue
		}

		foreign := field.Tag.Get("table")
		if foreign == "" || foreign == s.table {
			s.columns = append(s.columns, column{table: s.table, name: name})
			s.writable = append(s.writable, name)

			continue
		}

		s.columns = append(s.columns, column{table: foreign, name: field.Tag.Get("column"), alias: name})
	}
}

// selectFrom renders SELECT ... FROM ... [JOIN], restricted to only when given.
func (s *schema) selectFrom(only []string) string {
	exprs := make([]string, 0, len(s.columns))

	for _, col := range s.columns {
		key := col.name
		if col.alias != "" {
			key = col.alias
		}

		if len(only) > 0 && !slices.Contains(only, key) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(exprs, ", "), s.table)
	if s.join != "" {
		query += " " + s.join
	}

	return query
}

func (s *schema) insertStatement() string {
	binds := make([]string, len(s.writable))
	for i, name := range s.writable {
		binds[i] = ":" + name
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(s.writable, ", "), strings.Join(binds, ", "))
}
