// Package render prints a semantic-model table in one of several output
// formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/semgen"
	"github.com/deepnoodle-ai/semgen/internal/tablewriter"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-runewidth"
)

const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatSummary = "summary"
)

var (
	headingStyle = color.New(color.Bold)
	captionStyle = color.New(color.FgCyan, color.Bold)
	dimStyle     = color.New(color.Faint)
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatSummary}
}

// Render writes the table to w in the given format.
func Render(w io.Writer, table *semgen.Table, format string) error {
	if table == nil {
		return fmt.Errorf("nothing to render")
	}
	switch strings.ToLower(format) {
	case FormatText, "":
		return renderText(w, table)
	case FormatJSON:
		return renderJSON(w, table)
	case FormatYAML:
		return renderYAML(w, table)
	case FormatSummary:
		return renderSummary(w, table)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

func renderJSON(w io.Writer, table *semgen.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}

func renderYAML(w io.Writer, table *semgen.Table) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func renderText(w io.Writer, table *semgen.Table) error {
	var sb strings.Builder
	sb.WriteString(headingStyle.Sprint(table.Name))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "  columns (%d)\n", len(table.Columns))
	nameWidth := 0
	for _, c := range table.Columns {
		nameWidth = max(nameWidth, runewidth.StringWidth(c.Name))
	}
	for _, c := range table.Columns {
		fmt.Fprintf(&sb, "    %s  %s\n", runewidth.FillRight(c.Name, nameWidth), columnDetails(c))
	}

	fmt.Fprintf(&sb, "  measures (%d)\n", len(table.Measures))
	for _, m := range table.Measures {
		fmt.Fprintf(&sb, "    %s = %s  [%s]\n", m.Name, m.Formula, measureDetails(m))
	}

	fmt.Fprintf(&sb, "  relationships (%d)\n", len(table.Relationships))
	for _, r := range table.Relationships {
		fmt.Fprintf(&sb, "    %s: %s.%s -> %s.%s (%s)\n",
			r.Name, r.FromTable, r.FromColumn, r.ToTable, r.ToColumn, r.RelationshipType)
	}

	md := table.Metadata
	sb.WriteString("  metadata\n")
	for _, kv := range [][2]string{
		{"connection_type", md.ConnectionType},
		{"source_name", md.SourceName},
		{"last_updated", md.LastUpdated},
		{"created_by", md.CreatedBy},
		{"refresh_schedule", md.RefreshSchedule},
	} {
		fmt.Fprintf(&sb, "    %s %s\n", dimStyle.Sprint(runewidth.FillRight(kv[0]+":", 17)), kv[1])
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func columnDetails(c semgen.Column) string {
	parts := []string{c.DataType}
	if c.IsPrimaryKey {
		parts = append(parts, "primary key")
	}
	if c.IsForeignKey {
		parts = append(parts, "foreign key")
	}
	if c.IsNullable {
		parts = append(parts, "nullable")
	} else {
		parts = append(parts, "not null")
	}
	if c.DefaultValue != nil {
		parts = append(parts, "default "+strconv.Quote(*c.DefaultValue))
	}
	return strings.Join(parts, ", ")
}

func measureDetails(m semgen.Measure) string {
	parts := []string{m.MeasureType}
	if m.IsAggregated {
		parts = append(parts, "aggregated")
	}
	if len(m.RelatedColumns) > 0 {
		names := make([]string, 0, len(m.RelatedColumns))
		for _, c := range m.RelatedColumns {
			names = append(names, c.Name)
		}
		parts = append(parts, "over "+strings.Join(names, ", "))
	}
	return strings.Join(parts, ", ")
}

// renderSummary prints one bordered table per section.
func renderSummary(w io.Writer, table *semgen.Table) error {
	if _, err := fmt.Fprintln(w, headingStyle.Sprintf("Table: %s", table.Name)); err != nil {
		return err
	}

	columns := tablewriter.NewWriter(w)
	columns.SetCaption(captionStyle.Sprint("Columns"))
	columns.SetHeader("Name", "Type", "PK", "FK", "Nullable", "Default")
	for _, c := range table.Columns {
		columns.Append(c.Name, c.DataType, yesNo(c.IsPrimaryKey), yesNo(c.IsForeignKey),
			yesNo(c.IsNullable), defaultValue(c.DefaultValue))
	}

	measures := tablewriter.NewWriter(w)
	measures.SetCaption(captionStyle.Sprint("Measures"))
	measures.SetHeader("Name", "Formula", "Type", "Aggregated", "Columns")
	for _, m := range table.Measures {
		names := make([]string, 0, len(m.RelatedColumns))
		for _, c := range m.RelatedColumns {
			names = append(names, c.Name)
		}
		measures.Append(m.Name, m.Formula, m.MeasureType, yesNo(m.IsAggregated), strings.Join(names, ", "))
	}

	relationships := tablewriter.NewWriter(w)
	relationships.SetCaption(captionStyle.Sprint("Relationships"))
	relationships.SetHeader("Name", "From", "To", "Type")
	for _, r := range table.Relationships {
		relationships.Append(r.Name, r.FromTable+"."+r.FromColumn, r.ToTable+"."+r.ToColumn, r.RelationshipType)
	}

	md := table.Metadata
	metadata := tablewriter.NewWriter(w)
	metadata.SetCaption(captionStyle.Sprint("Metadata"))
	metadata.Append("Connection", md.ConnectionType)
	metadata.Append("Source", md.SourceName)
	metadata.Append("Last updated", md.LastUpdated)
	metadata.Append("Created by", md.CreatedBy)
	metadata.Append("Refresh", md.RefreshSchedule)

	for _, section := range []*tablewriter.Writer{columns, measures, relationships, metadata} {
		if err := section.Render(); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func defaultValue(v *string) string {
	if v == nil {
		return "-"
	}
	return strconv.Quote(*v)
}
