package semgen

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Column describes one column of a semantic-model table.
type Column struct {
	Name         string  `json:"column_name" yaml:"column_name" jsonschema:"Column name as it appears in the source"`
	DataType     string  `json:"data_type" yaml:"data_type" jsonschema:"Data type, e.g. integer, decimal, datetime, string"`
	IsPrimaryKey bool    `json:"is_primary_key" yaml:"is_primary_key"`
	IsNullable   bool    `json:"is_nullable" yaml:"is_nullable"`
	DefaultValue *string `json:"default_value" yaml:"default_value" jsonschema:"Default value, or null when there is none"`
	IsForeignKey bool    `json:"is_foreign_key" yaml:"is_foreign_key"`
}

// Measure is a calculated value defined over one or more columns.
type Measure struct {
	Name           string   `json:"measure_name" yaml:"measure_name"`
	Formula        string   `json:"measure_formula" yaml:"measure_formula" jsonschema:"Formula expression, e.g. SUM(Sales[SalesAmount])"`
	MeasureType    string   `json:"measure_type" yaml:"measure_type" jsonschema:"Kind of measure, e.g. sum, average, count"`
	RelatedColumns []Column `json:"related_columns" yaml:"related_columns"`
	IsAggregated   bool     `json:"is_aggregated" yaml:"is_aggregated"`
}

// Relationship links a column of one table to a column of another.
type Relationship struct {
	Name             string `json:"relationship_name" yaml:"relationship_name"`
	FromTable        string `json:"from_table" yaml:"from_table"`
	ToTable          string `json:"to_table" yaml:"to_table"`
	FromColumn       string `json:"from_column" yaml:"from_column"`
	ToColumn         string `json:"to_column" yaml:"to_column"`
	RelationshipType string `json:"relationship_type" yaml:"relationship_type" jsonschema:"Cardinality, e.g. many-to-one"`
}

// Metadata records where a table comes from and how it is maintained.
type Metadata struct {
	ConnectionType  string `json:"connection_type" yaml:"connection_type" jsonschema:"Source system, e.g. BigQuery"`
	SourceName      string `json:"source_name" yaml:"source_name"`
	LastUpdated     string `json:"last_updated" yaml:"last_updated" jsonschema:"Date of the last update, e.g. 2025-01-15"`
	CreatedBy       string `json:"created_by" yaml:"created_by"`
	RefreshSchedule string `json:"refresh_schedule" yaml:"refresh_schedule" jsonschema:"Refresh cadence, e.g. daily"`
}

// Table is the root of a semantic model. It exclusively owns every nested
// record.
type Table struct {
	Name          string         `json:"table_name" yaml:"table_name"`
	Columns       []Column       `json:"columns" yaml:"columns"`
	Measures      []Measure      `json:"measures" yaml:"measures"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
	Metadata      Metadata       `json:"metadata" yaml:"metadata"`
}

// Validate checks the invariants that the JSON shape alone cannot express.
func (c Column) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
	)
}

// Validate checks the columns the measure refers to.
func (m Measure) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.RelatedColumns),
	)
}

// Validate checks the table name and every nested record.
func (t Table) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Name, validation.Required),
		validation.Field(&t.Columns),
		validation.Field(&t.Measures),
	)
}

// ColumnByName returns the first column with the given name.
func (t *Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// invariantError converts an ozzo-validation error into a ValidationError
// naming the first offending field.
func invariantError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	return firstFieldError("", fieldErrs)
}

func firstFieldError(path string, errs validation.Errors) error {
	// ozzo-validation keys errors by json tag; iterate in a stable order
	for _, key := range sortedKeys(errs) {
		err := errs[key]
		var nested validation.Errors
		if errors.As(err, &nested) {
			return firstFieldError(joinIndex(path, key), nested)
		}
		return &ValidationError{
			Path:    path,
			Field:   key,
			Message: err.Error(),
		}
	}
	return nil
}
