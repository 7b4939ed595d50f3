package shared

import (
	"reflect"

	"meetingbook/shared/constant"
	"meetingbook/shared/dto"
	"meetingbook/shared/timezone"
)

// TransformFields turns an update request into a column map for Repository.Update.
// Only non-zero db-tagged fields are kept and pointers are dereferenced, so a nil
// pointer means "leave unchanged" while a pointer to a zero value clears the column.
// The audit columns are always stamped.
func TransformFields(data any, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := val.Type()

	fields := map[string]any{
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: username,
	}

	for i := range typ.NumField() {
		column := typ.Field(i).Tag.Get("db")
		if column == "" || column == "-" {
			continue
		}

		value := val.Field(i)
		if value.IsZero() {
			continue
		}

		if value.Kind() == reflect.Pointer {
			value = value.Elem()
		}

		fields[column] = value.Interface()
	}

	return fields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

// FilterByField matches a single column by equality.
func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: field, Value: value, Operator: dto.FilterOperatorEq, Table: table},
		},
	}
}
