// Package trend computes time-bucketed complaint statistics: rolling trend
// series, whole-range z-score anomaly detection, and production line ×
// defect type cross-tabulation. Every function is a pure read over its
// input records and returns empty results for sparse data.
package trend

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"vocanalyzer/internal/domain"
)

const rollingWindow = 4

// ComputeTrend buckets dated records, counts them per period, and attaches a
// trailing-window rolling mean and sample std. Records without a date are
// dropped; periods with zero records are not synthesized. The rolling mean
// uses a minimum window of 1 observed period; the rolling std needs 2
// observations and reports 0 below that, never NaN.
func ComputeTrend(records []domain.ComplaintRecord, bucket Bucket) []domain.TrendPoint {
	counts := make(map[time.Time]int)
	for _, rec := range records {
		if !rec.HasDate() {
			continue
		}
		counts[bucket.Truncate(rec.Date)]++
	}
	if len(counts) == 0 {
		return nil
	}

	periods := sortedPeriods(counts)

	points := make([]domain.TrendPoint, len(periods))
	values := make([]float64, len(periods))
	for i, p := range periods {
		values[i] = float64(counts[p])
	}

	for i, p := range periods {
		start := i - rollingWindow + 1
		if start < 0 {
			start = 0
		}
		window := values[start : i+1]

		mean, _ := stats.Mean(window)
		std := 0.0
		if len(window) >= 2 {
			std, _ = stats.StandardDeviationSample(window)
		}

		points[i] = domain.TrendPoint{
			Period:      p,
			Count:       counts[p],
			RollingMean: mean,
			RollingStd:  std,
		}
	}
	return points
}

// ComputeDefectTrend counts records per period and defect type. Records
// without a date or without a classified defect type are dropped. Output is
// sorted by period, then defect type.
func ComputeDefectTrend(records []domain.ComplaintRecord, bucket Bucket) []domain.DefectTrendPoint {
	type key struct {
		period time.Time
		defect string
	}
	counts := make(map[key]int)
	for _, rec := range records {
		if !rec.HasDate() || rec.Classification.DefectType == "" {
			continue
		}
		counts[key{bucket.Truncate(rec.Date), rec.Classification.DefectType}]++
	}
	if len(counts) == 0 {
		return nil
	}

	points := make([]domain.DefectTrendPoint, 0, len(counts))
	for k, c := range counts {
		points = append(points, domain.DefectTrendPoint{Period: k.period, DefectType: k.defect, Count: c})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Period.Equal(points[j].Period) {
			return points[i].Period.Before(points[j].Period)
		}
		return points[i].DefectType < points[j].DefectType
	})
	return points
}

func sortedPeriods(counts map[time.Time]int) []time.Time {
	periods := make([]time.Time, 0, len(counts))
	for p := range counts {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods
}
