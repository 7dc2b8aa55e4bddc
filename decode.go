package semgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// JSON type names used in validation errors.
const (
	typeObject  = "object"
	typeArray   = "array"
	typeString  = "string"
	typeBoolean = "boolean"
	typeNumber  = "number"
	typeNull    = "null"
)

// ValidationError reports the first constraint a payload violated.
type ValidationError struct {
	// Path locates the record holding the field, e.g. "measures[0].related_columns[1]".
	// It is empty for the root table.
	Path string

	// Field is the name of the offending field.
	Field string

	// Expected and Got are JSON type names. Got is empty when the field is
	// missing.
	Expected string
	Got      string

	// Message overrides the generated description.
	Message string
}

// Location returns the full path to the offending field.
func (e *ValidationError) Location() string {
	return joinField(e.Path, e.Field)
}

func (e *ValidationError) Error() string {
	loc := e.Location()
	if loc == "" {
		loc = "$"
	}
	switch {
	case e.Message != "":
		return fmt.Sprintf("validation failed at %s: %s", loc, e.Message)
	case e.Got == "":
		return fmt.Sprintf("validation failed at %s: missing required field %q (expected %s)", loc, e.Field, e.Expected)
	default:
		return fmt.Sprintf("validation failed at %s: expected %s, got %s", loc, e.Expected, e.Got)
	}
}

// DecodeTable strictly decodes a JSON payload into a Table. It fails on the
// first missing required field, type mismatch or invalid nested element.
// Unknown fields are ignored.
func DecodeTable(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("invalid json: %v", err)}
	}
	if dec.More() {
		return nil, &ValidationError{Message: "invalid json: unexpected data after top-level value"}
	}
	table, err := decodeTable("", raw)
	if err != nil {
		return nil, err
	}
	if err := invariantError(table.Validate()); err != nil {
		return nil, err
	}
	return table, nil
}

func decodeTable(path string, v any) (*Table, error) {
	r, err := newRecord(path, v)
	if err != nil {
		return nil, err
	}
	t := &Table{}
	if t.Name, err = r.string("table_name"); err != nil {
		return nil, err
	}
	if t.Columns, err = decodeList(r, "columns", decodeColumn); err != nil {
		return nil, err
	}
	if t.Measures, err = decodeList(r, "measures", decodeMeasure); err != nil {
		return nil, err
	}
	if t.Relationships, err = decodeList(r, "relationships", decodeRelationship); err != nil {
		return nil, err
	}
	metadata, err := r.field("metadata", typeObject)
	if err != nil {
		return nil, err
	}
	if t.Metadata, err = decodeMetadata(joinField(path, "metadata"), metadata); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeColumn(path string, v any) (Column, error) {
	var c Column
	r, err := newRecord(path, v)
	if err != nil {
		return c, err
	}
	if c.Name, err = r.string("column_name"); err != nil {
		return c, err
	}
	if c.DataType, err = r.string("data_type"); err != nil {
		return c, err
	}
	if c.IsPrimaryKey, err = r.bool("is_primary_key"); err != nil {
		return c, err
	}
	if c.IsNullable, err = r.bool("is_nullable"); err != nil {
		return c, err
	}
	if c.DefaultValue, err = r.optionalString("default_value"); err != nil {
		return c, err
	}
	if c.IsForeignKey, err = r.bool("is_foreign_key"); err != nil {
		return c, err
	}
	return c, nil
}

func decodeMeasure(path string, v any) (Measure, error) {
	var m Measure
	r, err := newRecord(path, v)
	if err != nil {
		return m, err
	}
	if m.Name, err = r.string("measure_name"); err != nil {
		return m, err
	}
	if m.Formula, err = r.string("measure_formula"); err != nil {
		return m, err
	}
	if m.MeasureType, err = r.string("measure_type"); err != nil {
		return m, err
	}
	if m.RelatedColumns, err = decodeList(r, "related_columns", decodeColumn); err != nil {
		return m, err
	}
	if m.IsAggregated, err = r.bool("is_aggregated"); err != nil {
		return m, err
	}
	return m, nil
}

func decodeRelationship(path string, v any) (Relationship, error) {
	var rel Relationship
	r, err := newRecord(path, v)
	if err != nil {
		return rel, err
	}
	fields := []struct {
		name string
		dst  *string
	}{
		{"relationship_name", &rel.Name},
		{"from_table", &rel.FromTable},
		{"to_table", &rel.ToTable},
		{"from_column", &rel.FromColumn},
		{"to_column", &rel.ToColumn},
		{"relationship_type", &rel.RelationshipType},
	}
	for _, f := range fields {
		if *f.dst, err = r.string(f.name); err != nil {
			return rel, err
		}
	}
	return rel, nil
}

func decodeMetadata(path string, v any) (Metadata, error) {
	var md Metadata
	r, err := newRecord(path, v)
	if err != nil {
		return md, err
	}
	fields := []struct {
		name string
		dst  *string
	}{
		{"connection_type", &md.ConnectionType},
		{"source_name", &md.SourceName},
		{"last_updated", &md.LastUpdated},
		{"created_by", &md.CreatedBy},
		{"refresh_schedule", &md.RefreshSchedule},
	}
	for _, f := range fields {
		if *f.dst, err = r.string(f.name); err != nil {
			return md, err
		}
	}
	return md, nil
}

// decodeList decodes a required array field, validating each element.
func decodeList[T any](r *record, name string, decode func(string, any) (T, error)) ([]T, error) {
	v, err := r.field(name, typeArray)
	if err != nil {
		return nil, err
	}
	items := v.([]any)
	out := make([]T, 0, len(items))
	listPath := joinField(r.path, name)
	for i, item := range items {
		elem, err := decode(joinIndex(listPath, strconv.Itoa(i)), item)
		if err != nil {
			return nil, err
		}
		out = append(out, elem)
	}
	return out, nil
}

// record wraps one JSON object being decoded.
type record struct {
	path   string
	fields map[string]any
}

func newRecord(path string, v any) (*record, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		parent, field := splitPath(path)
		return nil, &ValidationError{Path: parent, Field: field, Expected: typeObject, Got: jsonType(v)}
	}
	return &record{path: path, fields: obj}, nil
}

// field returns a required field after checking its JSON type.
func (r *record) field(name, expected string) (any, error) {
	v, ok := r.fields[name]
	if !ok {
		return nil, &ValidationError{Path: r.path, Field: name, Expected: expected}
	}
	if got := jsonType(v); got != expected {
		return nil, &ValidationError{Path: r.path, Field: name, Expected: expected, Got: got}
	}
	return v, nil
}

func (r *record) string(name string) (string, error) {
	v, err := r.field(name, typeString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *record) bool(name string) (bool, error) {
	v, err := r.field(name, typeBoolean)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// optionalString accepts an absent or null field as nil.
func (r *record) optionalString(name string) (*string, error) {
	v, ok := r.fields[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &ValidationError{Path: r.path, Field: name, Expected: typeString, Got: jsonType(v)}
	}
	return &s, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return typeNull
	case map[string]any:
		return typeObject
	case []any:
		return typeArray
	case string:
		return typeString
	case bool:
		return typeBoolean
	case json.Number, float64:
		return typeNumber
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinField(path, field string) string {
	switch {
	case path == "":
		return field
	case field == "":
		return path
	case strings.HasPrefix(field, "["):
		return path + field
	default:
		return path + "." + field
	}
}

// joinIndex appends key to path, formatting numeric keys as list indexes.
func joinIndex(path, key string) string {
	if _, err := strconv.Atoi(key); err == nil {
		return path + "[" + key + "]"
	}
	return joinField(path, key)
}

// splitPath separates the last element of a path so that errors about a
// whole record can still name it as a field of its parent.
func splitPath(path string) (parent, field string) {
	i := strings.LastIndexAny(path, ".[")
	if i < 0 {
		return "", path
	}
	if path[i] == '[' {
		return path[:i], path[i:]
	}
	return path[:i], path[i+1:]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
