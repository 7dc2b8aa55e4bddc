package semgen

import "strings"

// DefaultSystemPrompt instructs the model to act as a semantic-model author.
const DefaultSystemPrompt = `You design semantic models for business-intelligence reports.
Describe exactly one table: its columns, measures, relationships to other
tables and its source metadata. Use the names, types and values given by the
user verbatim. Use null for unknown default values and empty strings for
unknown metadata.`

// ExampleInstruction describes a Sales table for a Power BI report.
const ExampleInstruction = `Generate a semantic model for a Power BI report that includes the following elements:
- Table: 'Sales'
- Columns: 'ProductID' (integer, not nullable), 'SalesAmount' (decimal), 'Date' (datetime)
- Measure: 'Total Sales' (sum of SalesAmount)
- Relationships: Sales table has a relationship with the 'Product' table on ProductID
- Metadata: Source from BigQuery, last updated on '2025-01-15', created by 'Admin', refresh schedule: 'daily'`

// BuildInstruction joins a free-text description with an optional
// description of an existing source table.
func BuildInstruction(description, sourceContext string) string {
	description = strings.TrimSpace(description)
	sourceContext = strings.TrimSpace(sourceContext)
	if sourceContext == "" {
		return description
	}
	var b strings.Builder
	b.WriteString(description)
	b.WriteString("\n\nThe table already exists in the source system. Its current definition is:\n")
	b.WriteString(sourceContext)
	return b.String()
}
