package classify

import (
	"fmt"
	"strings"

	"vocanalyzer/internal/domain"
)

const classificationSystemPrompt = "You are a quality engineer. Return only valid JSON."

// orNA substitutes the sentinel used in the prompt for optional context
// fields that were left empty at ingestion.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// buildClassificationPrompt renders the fixed instruction payload: complaint
// context, the closed defect taxonomy, the three severity criteria, and the
// JSON response contract.
func buildClassificationPrompt(rec domain.ComplaintRecord) string {
	var taxonomyLines strings.Builder
	for _, cat := range domain.DefectTaxonomy {
		taxonomyLines.WriteString(fmt.Sprintf("- %s (subtypes: %s)\n", cat.Type, strings.Join(cat.Subtypes, ", ")))
	}

	var severityLines strings.Builder
	for _, sev := range domain.SeverityCriteria {
		severityLines.WriteString(fmt.Sprintf("- %s: %s\n", sev.Level, sev.Criteria))
	}

	return fmt.Sprintf(`You are an expert quality engineer at a medtech/connector manufacturer.
Analyze the following customer complaint and classify it.

Complaint ID: %s
Product line: %s
Complaint text: %s
Lot number: %s
Production line: %s

Classify using these defect types:
%s
Severity levels:
%s
Return ONLY a valid JSON object (no markdown, no explanation):
{
  "defect_type": "type",
  "defect_subtype": "subtype",
  "severity": "critical|major|minor",
  "root_cause_hypothesis": "brief hypothesis",
  "sentiment": "negative|neutral|positive",
  "summary": "one-line summary"
}`,
		rec.ComplaintID,
		orNA(rec.ProductLine),
		rec.ComplaintText,
		orNA(rec.LotNumber),
		orNA(rec.ProductionLine),
		taxonomyLines.String(),
		severityLines.String(),
	)
}
