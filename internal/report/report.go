// Package report renders the executive summary and vigilance/MDR reports as
// markdown. The MDR report is LLM-generated when a live text generator is
// available and falls back to a deterministic static layout otherwise.
package report

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"vocanalyzer/internal/domain"
)

// TextGenerator produces free-form text from a prompt pair. The live
// classifier satisfies it; demo mode passes nil.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ExecutiveSummary renders the classified record set as a markdown summary:
// period span, severity distribution, top defect types, complaints per
// production line, and the critical complaint list.
func ExecutiveSummary(records []domain.ComplaintRecord) string {
	if len(records) == 0 {
		return "No data available."
	}

	total := len(records)
	var dateMin, dateMax time.Time
	for _, rec := range records {
		if !rec.HasDate() {
			continue
		}
		if dateMin.IsZero() || rec.Date.Before(dateMin) {
			dateMin = rec.Date
		}
		if rec.Date.After(dateMax) {
			dateMax = rec.Date
		}
	}
	periodStr := "N/A"
	if !dateMin.IsZero() {
		periodStr = fmt.Sprintf("%s -- %s", dateMin.Format("2006-01-02"), dateMax.Format("2006-01-02"))
	}

	var nCritical, nMajor, nMinor int
	for _, rec := range records {
		switch rec.Classification.Severity {
		case domain.SeverityCritical:
			nCritical++
		case domain.SeverityMajor:
			nMajor++
		case domain.SeverityMinor:
			nMinor++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `## Executive summary

**Period:** %s
**Total complaints analyzed:** %d

### Severity distribution
| Severity | Count | %% |
|----------|-------|---|
| Critical | %d | %.0f%% |
| Major | %d | %.0f%% |
| Minor | %d | %.0f%% |

### Top 5 defect types
`, periodStr, total,
		nCritical, pct(nCritical, total),
		nMajor, pct(nMajor, total),
		nMinor, pct(nMinor, total))

	for _, tc := range topCounts(records, func(r domain.ComplaintRecord) string { return r.Classification.DefectType }, 5) {
		fmt.Fprintf(&b, "- **%s**: %d (%.0f%%)\n", tc.key, tc.count, pct(tc.count, total))
	}

	b.WriteString("\n### Complaints by production line\n")
	for _, tc := range topCounts(records, func(r domain.ComplaintRecord) string { return r.ProductionLine }, 3) {
		fmt.Fprintf(&b, "- **%s**: %d (%.0f%%)\n", tc.key, tc.count, pct(tc.count, total))
	}

	if nCritical > 0 {
		fmt.Fprintf(&b, "\n### Critical complaints (%d)\n", nCritical)
		for _, rec := range records {
			if rec.Classification.Severity != domain.SeverityCritical {
				continue
			}
			summary := rec.Classification.Summary
			if summary == "" {
				summary = truncate(rec.ComplaintText, 100)
			}
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", rec.ComplaintID, orNA(rec.ProductLine), summary)
		}
	}

	return b.String()
}

// MDRReport renders a vigilance / FDA MDR-style report. With a generator it
// is produced by the LLM from the critical complaint digest; without one, or
// when the LLM call fails, the static layout is used.
func MDRReport(ctx context.Context, records []domain.ComplaintRecord, gen TextGenerator) string {
	if len(records) == 0 {
		return "No data."
	}
	if gen == nil {
		return mdrStatic(records)
	}

	critical := criticalRecords(records)
	var lines []string
	for _, rec := range critical {
		lines = append(lines, fmt.Sprintf("- %s: %s (Product: %s, Lot: %s, Defect: %s)",
			rec.ComplaintID,
			truncate(rec.ComplaintText, 150),
			orNA(rec.ProductLine),
			orNA(rec.LotNumber),
			orNA(rec.Classification.DefectType)))
	}
	details := "None"
	if len(lines) > 0 {
		details = strings.Join(lines, "\n")
	}

	userPrompt := fmt.Sprintf(`Generate a medical device vigilance / FDA MDR-style report in English based on these critical complaints:

Total complaints: %d
Critical complaints: %d

Critical complaint details:
%s

Include sections for:
1. Reportable events summary
2. Risk assessment
3. Root cause analysis summary
4. Recommended corrective actions
5. Timeline for follow-up

Format in markdown. Be concise and professional.`, len(records), len(critical), details)

	text, err := gen.GenerateText(ctx, "You are a medical device regulatory affairs expert.", userPrompt)
	if err != nil {
		log.Printf("mdr report llm error (falling back to static): %v", err)
		return mdrStatic(records)
	}
	return text
}

func mdrStatic(records []domain.ComplaintRecord) string {
	now := time.Now().Format("2006-01-02 15:04")
	critical := criticalRecords(records)

	var b strings.Builder
	fmt.Fprintf(&b, `## Vigilance / MDR report

**Generation date:** %s
**Total complaints:** %d
**Critical complaints:** %d

---

### 1. Reportable events

`, now, len(records), len(critical))

	if len(critical) == 0 {
		b.WriteString("No critical events to report.\n\n")
	} else {
		for _, rec := range critical {
			date := "N/A"
			if rec.HasDate() {
				date = rec.Date.Format("2006-01-02")
			}
			fmt.Fprintf(&b, `#### %s
- **Product:** %s
- **Lot:** %s
- **Line:** %s
- **Date:** %s
- **Description:** %s
- **Defect type:** %s / %s
- **Probable root cause:** %s

`,
				rec.ComplaintID,
				orNA(rec.ProductLine),
				orNA(rec.LotNumber),
				orNA(rec.ProductionLine),
				date,
				orNA(rec.ComplaintText),
				orNA(rec.Classification.DefectType),
				orNA(rec.Classification.DefectSubtype),
				orDefault(rec.Classification.RootCauseHypothesis, "To be determined"))
		}
	}

	b.WriteString(`### 2. Recommended actions

- Assess need for product recall for critical lots.
- Investigate identified root causes.
- Update corresponding CAPA.
- Verify compliance with ISO 13485 requirements.

### 3. Follow-up

This report must be reviewed by Quality Manager and Regulatory Affairs Manager.
`)
	return b.String()
}

// WriteReportFile writes a report under outputDir, named by report type and
// date.
func WriteReportFile(content, outputDir string, reportDate time.Time, name string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.md", sanitizeFilename(name), reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}

func sanitizeFilename(s string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "_")
	return replacer.Replace(s)
}

func criticalRecords(records []domain.ComplaintRecord) []domain.ComplaintRecord {
	var out []domain.ComplaintRecord
	for _, rec := range records {
		if rec.Classification.Severity == domain.SeverityCritical {
			out = append(out, rec)
		}
	}
	return out
}

type keyCount struct {
	key   string
	count int
}

// topCounts returns the n most frequent non-empty values of the keyed field,
// count-descending with alphabetical tie-break.
func topCounts(records []domain.ComplaintRecord, key func(domain.ComplaintRecord) string, n int) []keyCount {
	counts := make(map[string]int)
	for _, rec := range records {
		if k := key(rec); k != "" {
			counts[k]++
		}
	}
	out := make([]keyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, keyCount{k, c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
