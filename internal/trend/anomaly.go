package trend

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"vocanalyzer/internal/domain"
)

// DefaultZThreshold is the global anomaly threshold. Per-line detection uses
// the lower DefaultLineZThreshold because per-line samples are smaller.
const (
	DefaultZThreshold     = 2.0
	DefaultLineZThreshold = 1.5
)

// DetectAnomalies flags periods whose complaint count sits at least
// zThreshold standard deviations above the whole-range mean.
// One-sided: only unusually high counts are flagged. Fewer than 3 dated
// records, fewer than 3 observed periods, or zero variance yield no
// findings; insufficient signal is not a fault.
func DetectAnomalies(records []domain.ComplaintRecord, zThreshold float64, bucket Bucket) []domain.AnomalyFinding {
	var dated []domain.ComplaintRecord
	for _, rec := range records {
		if rec.HasDate() {
			dated = append(dated, rec)
		}
	}
	if len(dated) < 3 {
		return nil
	}

	counts := make(map[time.Time]int)
	for _, rec := range dated {
		counts[bucket.Truncate(rec.Date)]++
	}

	return flagPeriods("", counts, zThreshold, bucket, nil)
}

// DetectProductionLineAnomalies repeats the global detection independently
// for each production line, restricted to records with both a production
// line and a classified defect type. Lines are processed in first-seen order;
// each finding is annotated with the most frequent defect type of that line
// during the flagged period (ties go to the first encountered). Lines with
// fewer than 3 observed periods or zero variance are silently skipped.
func DetectProductionLineAnomalies(records []domain.ComplaintRecord, zThreshold float64, bucket Bucket) []domain.AnomalyFinding {
	var valid []domain.ComplaintRecord
	for _, rec := range records {
		if rec.HasDate() && rec.ProductionLine != "" && rec.Classification.DefectType != "" {
			valid = append(valid, rec)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	var lines []string
	byLine := make(map[string][]domain.ComplaintRecord)
	for _, rec := range valid {
		if _, seen := byLine[rec.ProductionLine]; !seen {
			lines = append(lines, rec.ProductionLine)
		}
		byLine[rec.ProductionLine] = append(byLine[rec.ProductionLine], rec)
	}

	var findings []domain.AnomalyFinding
	for _, line := range lines {
		lineRecords := byLine[line]
		counts := make(map[time.Time]int)
		for _, rec := range lineRecords {
			counts[bucket.Truncate(rec.Date)]++
		}
		findings = append(findings, flagPeriods(line, counts, zThreshold, bucket, lineRecords)...)
	}
	return findings
}

// flagPeriods runs the shared z-score pass over one scope's period counts,
// in period-ascending order. When lineRecords is non-nil, findings carry the
// dominant defect of the flagged period.
func flagPeriods(scope string, counts map[time.Time]int, zThreshold float64, bucket Bucket, lineRecords []domain.ComplaintRecord) []domain.AnomalyFinding {
	if len(counts) < 3 {
		return nil
	}

	periods := sortedPeriods(counts)
	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = float64(counts[p])
	}

	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	if std == 0 {
		return nil
	}

	var findings []domain.AnomalyFinding
	for _, p := range periods {
		count := counts[p]
		z := (float64(count) - mean) / std
		if z < zThreshold {
			continue
		}

		finding := domain.AnomalyFinding{
			Scope:       scope,
			Period:      p,
			PeriodLabel: bucket.Label(p),
			Count:       count,
			Mean:        roundTo(mean, 1),
			Std:         roundTo(std, 1),
			ZScore:      roundTo(z, 2),
		}
		if scope == "" {
			finding.Description = fmt.Sprintf("%d complaints in %s (z=%.1f)", count, p.Format("Jan 2006"), z)
		} else {
			finding.TopDefect = dominantDefect(lineRecords, p, bucket)
			finding.Description = fmt.Sprintf("%s: %d complaints in %s (z=%.1f), dominant defect: %s",
				scope, count, p.Format("Jan 2006"), z, finding.TopDefect)
		}
		findings = append(findings, finding)
	}
	return findings
}

// dominantDefect returns the mode defect type among the given records in the
// given period, breaking ties by first-encountered order.
func dominantDefect(records []domain.ComplaintRecord, period time.Time, bucket Bucket) string {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if !bucket.Truncate(rec.Date).Equal(period) {
			continue
		}
		d := rec.Classification.DefectType
		if _, seen := counts[d]; !seen {
			order = append(order, d)
		}
		counts[d]++
	}

	top := "N/A"
	best := 0
	for _, d := range order {
		if counts[d] > best {
			top = d
			best = counts[d]
		}
	}
	return top
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
