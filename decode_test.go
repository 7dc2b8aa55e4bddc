package semgen

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func loadSales(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/sales.json")
	require.NoError(t, err)
	return data
}

// mutate decodes the sales fixture, applies fn and re-encodes it.
func mutate(t *testing.T, fn func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(loadSales(t), &doc))
	fn(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func firstColumn(doc map[string]any) map[string]any {
	return doc["columns"].([]any)[0].(map[string]any)
}

func TestDecodeTableSalesScenario(t *testing.T) {
	table, err := DecodeTable(loadSales(t))
	require.NoError(t, err)

	require.Equal(t, "Sales", table.Name)
	require.Len(t, table.Columns, 3)
	require.Len(t, table.Measures, 1)
	require.Len(t, table.Relationships, 1)

	productID := table.Columns[0]
	require.Equal(t, "ProductID", productID.Name)
	require.Equal(t, "integer", productID.DataType)
	require.False(t, productID.IsNullable)
	require.True(t, productID.IsForeignKey)
	require.Nil(t, productID.DefaultValue)

	require.Equal(t, "SalesAmount", table.Columns[1].Name)
	require.Equal(t, "decimal", table.Columns[1].DataType)
	require.NotNil(t, table.Columns[1].DefaultValue)
	require.Equal(t, "0.0", *table.Columns[1].DefaultValue)

	require.Equal(t, "Date", table.Columns[2].Name)
	require.Equal(t, "datetime", table.Columns[2].DataType)

	measure := table.Measures[0]
	require.Equal(t, "Total Sales", measure.Name)
	require.Equal(t, "sum", measure.MeasureType)
	require.True(t, measure.IsAggregated)
	require.Len(t, measure.RelatedColumns, 1)
	require.Equal(t, "SalesAmount", measure.RelatedColumns[0].Name)

	require.Equal(t, Relationship{
		Name:             "Sales_Product",
		FromTable:        "Sales",
		ToTable:          "Product",
		FromColumn:       "ProductID",
		ToColumn:         "ProductID",
		RelationshipType: "many-to-one",
	}, table.Relationships[0])

	require.Equal(t, Metadata{
		ConnectionType:  "BigQuery",
		SourceName:      "sales_dataset",
		LastUpdated:     "2025-01-15",
		CreatedBy:       "Admin",
		RefreshSchedule: "daily",
	}, table.Metadata)
}

func TestDecodeTableRoundTrip(t *testing.T) {
	table, err := DecodeTable(loadSales(t))
	require.NoError(t, err)

	encoded, err := json.Marshal(table)
	require.NoError(t, err)

	again, err := DecodeTable(encoded)
	require.NoError(t, err)
	require.Equal(t, table, again)
}

func TestDecodeTableOptionalDefaultValue(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) {
			delete(firstColumn(doc), "default_value")
		})
		table, err := DecodeTable(data)
		require.NoError(t, err)
		require.Nil(t, table.Columns[0].DefaultValue)
	})

	t.Run("null", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) {
			firstColumn(doc)["default_value"] = nil
		})
		table, err := DecodeTable(data)
		require.NoError(t, err)
		require.Nil(t, table.Columns[0].DefaultValue)
	})

	t.Run("wrong type", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) {
			firstColumn(doc)["default_value"] = 0
		})
		_, err := DecodeTable(data)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "columns[0].default_value", verr.Location())
		require.Equal(t, "string", verr.Expected)
		require.Equal(t, "number", verr.Got)
	})
}

func TestDecodeTableMissingField(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		location string
		field    string
		expected string
	}{
		{
			name:     "column name",
			mutate:   func(doc map[string]any) { delete(firstColumn(doc), "column_name") },
			location: "columns[0].column_name",
			field:    "column_name",
			expected: "string",
		},
		{
			name:     "table name",
			mutate:   func(doc map[string]any) { delete(doc, "table_name") },
			location: "table_name",
			field:    "table_name",
			expected: "string",
		},
		{
			name:     "metadata",
			mutate:   func(doc map[string]any) { delete(doc, "metadata") },
			location: "metadata",
			field:    "metadata",
			expected: "object",
		},
		{
			name:     "measures list",
			mutate:   func(doc map[string]any) { delete(doc, "measures") },
			location: "measures",
			field:    "measures",
			expected: "array",
		},
		{
			name: "nested related column",
			mutate: func(doc map[string]any) {
				measure := doc["measures"].([]any)[0].(map[string]any)
				related := measure["related_columns"].([]any)[0].(map[string]any)
				delete(related, "is_nullable")
			},
			location: "measures[0].related_columns[0].is_nullable",
			field:    "is_nullable",
			expected: "boolean",
		},
		{
			name: "metadata field",
			mutate: func(doc map[string]any) {
				delete(doc["metadata"].(map[string]any), "refresh_schedule")
			},
			location: "metadata.refresh_schedule",
			field:    "refresh_schedule",
			expected: "string",
		},
		{
			name: "relationship field",
			mutate: func(doc map[string]any) {
				delete(doc["relationships"].([]any)[0].(map[string]any), "to_table")
			},
			location: "relationships[0].to_table",
			field:    "to_table",
			expected: "string",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTable(mutate(t, tc.mutate))
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.field, verr.Field)
			require.Equal(t, tc.location, verr.Location())
			require.Equal(t, tc.expected, verr.Expected)
			require.Empty(t, verr.Got)
			require.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestDecodeTableTypeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(doc map[string]any)
		location string
		expected string
		got      string
	}{
		{
			name:     "primary key as string",
			mutate:   func(doc map[string]any) { firstColumn(doc)["is_primary_key"] = "yes" },
			location: "columns[0].is_primary_key",
			expected: "boolean",
			got:      "string",
		},
		{
			name:     "table name as number",
			mutate:   func(doc map[string]any) { doc["table_name"] = 42 },
			location: "table_name",
			expected: "string",
			got:      "number",
		},
		{
			name:     "columns as object",
			mutate:   func(doc map[string]any) { doc["columns"] = map[string]any{} },
			location: "columns",
			expected: "array",
			got:      "object",
		},
		{
			name:     "column element as string",
			mutate:   func(doc map[string]any) { doc["columns"] = []any{"ProductID"} },
			location: "columns[0]",
			expected: "object",
			got:      "string",
		},
		{
			name:     "metadata as null",
			mutate:   func(doc map[string]any) { doc["metadata"] = nil },
			location: "metadata",
			expected: "object",
			got:      "null",
		},
		{
			name: "aggregated as number",
			mutate: func(doc map[string]any) {
				doc["measures"].([]any)[0].(map[string]any)["is_aggregated"] = 1
			},
			location: "measures[0].is_aggregated",
			expected: "boolean",
			got:      "number",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTable(mutate(t, tc.mutate))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.location, verr.Location())
			require.Equal(t, tc.expected, verr.Expected)
			require.Equal(t, tc.got, verr.Got)
			require.True(t, IsValidationError(err))
		})
	}
}

func TestDecodeTableInvariants(t *testing.T) {
	t.Run("empty column name", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) {
			doc["columns"].([]any)[2].(map[string]any)["column_name"] = ""
		})
		_, err := DecodeTable(data)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "columns[2].column_name", verr.Location())
		require.Contains(t, err.Error(), "cannot be blank")
	})

	t.Run("empty related column name", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) {
			measure := doc["measures"].([]any)[0].(map[string]any)
			measure["related_columns"].([]any)[0].(map[string]any)["column_name"] = ""
		})
		_, err := DecodeTable(data)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "measures[0].related_columns[0].column_name", verr.Location())
	})

	t.Run("empty table name", func(t *testing.T) {
		data := mutate(t, func(doc map[string]any) { doc["table_name"] = "" })
		_, err := DecodeTable(data)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, "table_name", verr.Location())
	})
}

func TestDecodeTableMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", `{"table_name": "Sales"`},
		{"array root", `[]`},
		{"trailing data", `{} {}`},
		{"plain text", `Here is your semantic model`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTable([]byte(tc.input))
			require.Error(t, err)
			require.True(t, IsValidationError(err))
		})
	}
}

func TestDecodeTableIgnoresUnknownFields(t *testing.T) {
	data := mutate(t, func(doc map[string]any) {
		doc["description"] = "extra"
		firstColumn(doc)["format"] = "0"
	})
	table, err := DecodeTable(data)
	require.NoError(t, err)
	require.Equal(t, "Sales", table.Name)
}

func TestDecodeTableEmptyLists(t *testing.T) {
	data := []byte(`{
		"table_name": "Empty",
		"columns": [],
		"measures": [],
		"relationships": [],
		"metadata": {"connection_type": "", "source_name": "", "last_updated": "", "created_by": "", "refresh_schedule": ""}
	}`)
	table, err := DecodeTable(data)
	require.NoError(t, err)
	require.NotNil(t, table.Columns)
	require.Empty(t, table.Columns)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Path: "columns[0]", Field: "column_name", Expected: "string"}
	require.Equal(t, `validation failed at columns[0].column_name: missing required field "column_name" (expected string)`, err.Error())

	err = &ValidationError{Path: "columns[0]", Field: "is_primary_key", Expected: "boolean", Got: "string"}
	require.Equal(t, "validation failed at columns[0].is_primary_key: expected boolean, got string", err.Error())

	err = &ValidationError{Message: "invalid json: EOF"}
	require.Equal(t, "validation failed at $: invalid json: EOF", err.Error())
}
