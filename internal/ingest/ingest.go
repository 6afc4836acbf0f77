// Package ingest turns CSV and free-text input into normalized complaint
// records. Normalization guarantees total field presence: every optional
// string defaults to "" and an unparseable date becomes the zero time, so
// the analysis packages never check for missing attributes.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"vocanalyzer/internal/domain"
)

// RequiredColumns are the minimum columns an uploaded CSV must carry.
var RequiredColumns = []string{"complaint_id", "complaint_text"}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// LoadCSV reads complaint records from CSV. The header row names the
// columns; unknown columns are ignored and missing optional columns default
// to empty. Records missing either required field are rejected as a
// structural error.
func LoadCSV(r io.Reader) ([]domain.ComplaintRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range RequiredColumns {
		if _, ok := colIdx[required]; !ok {
			return nil, fmt.Errorf("missing required column '%s'", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := colIdx[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []domain.ComplaintRecord
	for i, row := range rows[1:] {
		rec := domain.ComplaintRecord{
			ComplaintID:    field(row, "complaint_id"),
			Date:           parseDate(field(row, "date")),
			ProductLine:    field(row, "product_line"),
			Customer:       field(row, "customer"),
			ComplaintText:  field(row, "complaint_text"),
			LotNumber:      field(row, "lot_number"),
			ProductionLine: field(row, "production_line"),
		}
		if rec.ComplaintID == "" || rec.ComplaintText == "" {
			return nil, fmt.Errorf("row %d: complaint_id and complaint_text are required", i+2)
		}
		records = append(records, rec)
	}
	return records, nil
}

func LoadCSVFile(path string) ([]domain.ComplaintRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// ParseFreeText turns plain text, one complaint per line, into records with
// generated sequential IDs and the current time as the complaint date.
func ParseFreeText(text string, startID int) []domain.ComplaintRecord {
	var records []domain.ComplaintRecord
	id := startID
	now := time.Now()
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		records = append(records, domain.ComplaintRecord{
			ComplaintID:   fmt.Sprintf("C-%03d", id),
			Date:          now,
			ComplaintText: line,
		})
		id++
	}
	return records
}

// parseDate accepts the common date layouts seen in complaint exports.
// Anything else is a missing date, represented as the zero time.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// WriteCSV exports records with their classification columns.
func WriteCSV(w io.Writer, records []domain.ComplaintRecord) error {
	writer := csv.NewWriter(w)
	header := []string{
		"complaint_id", "date", "product_line", "customer", "complaint_text",
		"lot_number", "production_line",
		"severity", "defect_type", "defect_subtype", "root_cause_hypothesis",
		"sentiment", "ai_summary", "classification_error",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, rec := range records {
		date := ""
		if rec.HasDate() {
			date = rec.Date.Format("2006-01-02")
		}
		row := []string{
			rec.ComplaintID, date, rec.ProductLine, rec.Customer, rec.ComplaintText,
			rec.LotNumber, rec.ProductionLine,
			rec.Classification.Severity, rec.Classification.DefectType,
			rec.Classification.DefectSubtype, rec.Classification.RootCauseHypothesis,
			rec.Classification.Sentiment, rec.Classification.Summary,
			rec.Classification.Error,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
