// Package csvio converts between raw tabular bytes and buyer records.
// Parsing is header-driven; export uses a fixed column order with enum
// fields rendered in their human spelling.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"buyer-lead-portal/internal/apierr"
	"buyer-lead-portal/internal/enummap"
	"buyer-lead-portal/internal/models"
	"buyer-lead-portal/internal/validation"
)

// ExportColumns is the fixed export column order.
var ExportColumns = []string{
	"fullName", "email", "phone", "city", "propertyType", "bhk",
	"purpose", "budgetMin", "budgetMax", "timeline", "source",
	"status", "notes", "tags", "updatedAt",
}

// ParseBuffer decodes raw CSV bytes into one map per data row, keyed by
// the header row. Ragged rows are tolerated; missing cells are absent
// from the map.
func ParseBuffer(raw []byte) ([]map[string]string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowToInput cleans a raw row and produces the human-spelling view the
// validator expects. Enum-like cells are pushed to canonical spelling and
// back so that files holding either spelling validate the same way.
// Numeric parse failures are reported as field errors.
func RowToInput(row map[string]string) (validation.BuyerInput, []apierr.FieldError) {
	var parseErrs []apierr.FieldError

	input := validation.BuyerInput{
		FullName:     strings.TrimSpace(row["fullName"]),
		Email:        strings.TrimSpace(row["email"]),
		Phone:        strings.TrimSpace(row["phone"]),
		City:         strings.TrimSpace(row["city"]),
		PropertyType: strings.TrimSpace(row["propertyType"]),
		Purpose:      strings.TrimSpace(row["purpose"]),
		Notes:        strings.TrimSpace(row["notes"]),
		Tags:         splitTags(row["tags"]),
	}

	input.BHK = enummap.BHKToHuman(enummap.BHKToCanonical(strings.TrimSpace(row["bhk"])))
	input.Timeline = enummap.TimelineToHuman(enummap.TimelineToCanonical(strings.TrimSpace(row["timeline"])))
	input.Source = enummap.SourceToHuman(enummap.SourceToCanonical(strings.TrimSpace(row["source"])))
	input.Status = enummap.StatusToHuman(enummap.StatusToCanonical(strings.TrimSpace(row["status"])))

	input.BudgetMin, parseErrs = parseBudget(row["budgetMin"], "budgetMin", parseErrs)
	input.BudgetMax, parseErrs = parseBudget(row["budgetMax"], "budgetMax", parseErrs)

	return input, parseErrs
}

func parseBudget(cell, field string, errs []apierr.FieldError) (*int, []apierr.FieldError) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, errs
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return nil, append(errs, apierr.FieldError{Field: field, Message: "Must be a number"})
	}
	return &n, errs
}

func splitTags(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// exportRecord renders one buyer in human spelling, in ExportColumns
// order. Absent optionals render as empty cells.
func exportRecord(b models.Buyer) []string {
	budget := func(v *int) string {
		if v == nil {
			return ""
		}
		return strconv.Itoa(*v)
	}

	bhk := ""
	if b.BHK != "" {
		bhk = enummap.BHKToHuman(string(b.BHK))
	}

	return []string{
		b.FullName,
		b.Email,
		b.Phone,
		string(b.City),
		string(b.PropertyType),
		bhk,
		string(b.Purpose),
		budget(b.BudgetMin),
		budget(b.BudgetMax),
		enummap.TimelineToHuman(string(b.Timeline)),
		enummap.SourceToHuman(string(b.Source)),
		enummap.StatusToHuman(string(b.Status)),
		b.Notes,
		strings.Join(b.Tags, ","),
		b.UpdatedAt.Format(time.RFC3339),
	}
}

// Generate serializes buyers as CSV with a header row.
func Generate(buyers []models.Buyer) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ExportColumns); err != nil {
		return nil, err
	}
	for _, b := range buyers {
		if err := w.Write(exportRecord(b)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
