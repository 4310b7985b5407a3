package utils

import (
	"reflect"
	"slices"
)

var ColumnTag = "db"

// StructTagValues lists the ColumnTag values of input's exported fields in
// declaration order, skipping any name in ignore.
func StructTagValues(input any, ignore ...string) []string {
	fields := taggedFields(input, ignore)

	result := make([]string, 0, len(fields))
	for _, f := range fields {
		result = append(result, f.tag)
	}

	return result
}

// StructToMap maps ColumnTag values to field values, skipping any name in
// ignore. The result feeds squirrel's SetMap.
func StructToMap(input any, ignore ...string) map[string]any {
	fields := taggedFields(input, ignore)

	result := make(map[string]any, len(fields))
	for _, f := range fields {
		result[f.tag] = f.value.Interface()
	}

	return result
}

type taggedField struct {
	tag   string
	value reflect.Value
}

func taggedFields(input any, ignore []string) []taggedField {

	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()

	result := make([]taggedField, 0, itemValue.NumField())

	for i := 0; i < itemValue.NumField(); i++ {

		if itemType.Field(i).PkgPath != "" {
			continue
		}

		tagValue := itemType.Field(i).Tag.Get(ColumnTag)
		if tagValue == "" || tagValue == "-" || slices.Contains(ignore, tagValue) {
			continue
		}

		result = append(result, taggedField{tag: tagValue, value: itemValue.Field(i)})

	}

	return result
}
