// Package bigquery describes existing BigQuery tables so a generated
// semantic model can be grounded in a real source schema.
package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

// TableRef identifies a BigQuery table.
type TableRef struct {
	ProjectID string
	DatasetID string
	TableID   string
}

func (r TableRef) String() string {
	return r.ProjectID + "." + r.DatasetID + "." + r.TableID
}

// ParseTableRef parses a "project.dataset.table" reference. A colon may
// separate the project as in the legacy "project:dataset.table" form.
func ParseTableRef(s string) (TableRef, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "`"))
	s = strings.Replace(s, ":", ".", 1)
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return TableRef{}, fmt.Errorf("invalid table reference %q: expected project.dataset.table", s)
	}
	for _, part := range parts {
		if part == "" {
			return TableRef{}, fmt.Errorf("invalid table reference %q: empty component", s)
		}
	}
	return TableRef{ProjectID: parts[0], DatasetID: parts[1], TableID: parts[2]}, nil
}

// MetadataFetcher retrieves the metadata of a table.
type MetadataFetcher interface {
	TableMetadata(ctx context.Context, ref TableRef) (*bigquery.TableMetadata, error)
}

// Client fetches table metadata with application default credentials.
type Client struct{}

func (Client) TableMetadata(ctx context.Context, ref TableRef) (*bigquery.TableMetadata, error) {
	client, err := bigquery.NewClient(ctx, ref.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	m, err := client.Dataset(ref.DatasetID).Table(ref.TableID).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for %s: %w", ref, err)
	}
	return m, nil
}

// Describer renders table metadata as prompt context.
type Describer struct {
	fetcher MetadataFetcher
}

// NewDescriber returns a Describer. A nil fetcher uses Client.
func NewDescriber(fetcher MetadataFetcher) *Describer {
	if fetcher == nil {
		fetcher = Client{}
	}
	return &Describer{fetcher: fetcher}
}

// Describe fetches the table's metadata and formats it as text.
func (d *Describer) Describe(ctx context.Context, ref TableRef) (string, error) {
	m, err := d.fetcher.TableMetadata(ctx, ref)
	if err != nil {
		return "", err
	}
	return FormatMetadata(ref, m), nil
}

// FormatMetadata formats table metadata as a plain-text description listing
// every column with its type and mode. Nested record fields are listed with
// dotted names.
func FormatMetadata(ref TableRef, m *bigquery.TableMetadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Existing BigQuery table %s", ref)
	if m == nil {
		sb.WriteString("\n")
		return sb.String()
	}
	if m.Type != "" {
		fmt.Fprintf(&sb, " (%s)", strings.ToLower(string(m.Type)))
	}
	sb.WriteString("\n")
	if m.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", m.Description)
	}
	if !m.LastModifiedTime.IsZero() {
		fmt.Fprintf(&sb, "Last modified: %s\n", m.LastModifiedTime.UTC().Format("2006-01-02"))
	}
	if m.NumRows > 0 {
		fmt.Fprintf(&sb, "Rows: %d\n", m.NumRows)
	}
	sb.WriteString("Columns:\n")
	writeFields(&sb, "", m.Schema)
	return sb.String()
}

func writeFields(sb *strings.Builder, prefix string, schema bigquery.Schema) {
	for _, f := range schema {
		name := prefix + f.Name
		fmt.Fprintf(sb, "- %s %s %s", name, f.Type, fieldMode(f))
		if f.Description != "" {
			fmt.Fprintf(sb, ": %s", f.Description)
		}
		sb.WriteString("\n")
		if len(f.Schema) > 0 {
			writeFields(sb, name+".", f.Schema)
		}
	}
}

func fieldMode(f *bigquery.FieldSchema) string {
	switch {
	case f.Repeated:
		return "REPEATED"
	case f.Required:
		return "REQUIRED"
	default:
		return "NULLABLE"
	}
}
