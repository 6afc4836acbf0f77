package ingest

import (
	_ "embed"
	"strings"

	"vocanalyzer/internal/domain"
)

//go:embed sample_complaints.csv
var sampleCSV string

// SampleData returns the bundled example dataset. Its complaint IDs line up
// with the demo classification table, so a session without a live service
// still produces a fully enriched analysis.
func SampleData() []domain.ComplaintRecord {
	records, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		// The embedded file ships with the binary; a parse failure here is a
		// build defect, not a runtime condition.
		panic("ingest: invalid embedded sample data: " + err.Error())
	}
	return records
}
