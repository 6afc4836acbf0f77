// Package sentiment aggregates the LLM-assigned sentiment labels. Sentiment
// itself comes from the classification pass; there is no separate model.
package sentiment

import (
	"sort"
	"time"

	"vocanalyzer/internal/domain"
	"vocanalyzer/internal/trend"
)

// Stats counts records per sentiment class. Unlabelled records are not
// counted.
func Stats(records []domain.ComplaintRecord) map[string]int {
	counts := map[string]int{
		domain.SentimentNegative: 0,
		domain.SentimentNeutral:  0,
		domain.SentimentPositive: 0,
	}
	for _, rec := range records {
		if _, ok := counts[rec.Classification.Sentiment]; ok {
			counts[rec.Classification.Sentiment]++
		}
	}
	return counts
}

// CrossTab is a product line × sentiment table with totals, rows sorted
// lexically.
type CrossTab struct {
	Products   []string
	Counts     map[string]map[string]int // product -> sentiment -> count
	RowTotals  map[string]int
	ColTotals  map[string]int
	GrandTotal int
}

func (c CrossTab) IsEmpty() bool {
	return len(c.Products) == 0
}

// ByProduct cross-tabulates sentiment per product line. Records without a
// product line or sentiment label are excluded.
func ByProduct(records []domain.ComplaintRecord) CrossTab {
	ct := CrossTab{
		Counts:    make(map[string]map[string]int),
		RowTotals: make(map[string]int),
		ColTotals: make(map[string]int),
	}
	for _, rec := range records {
		product := rec.ProductLine
		s := rec.Classification.Sentiment
		if product == "" || s == "" {
			continue
		}
		if ct.Counts[product] == nil {
			ct.Products = append(ct.Products, product)
			ct.Counts[product] = make(map[string]int)
		}
		ct.Counts[product][s]++
		ct.RowTotals[product]++
		ct.ColTotals[s]++
		ct.GrandTotal++
	}
	sort.Strings(ct.Products)
	return ct
}

// Point is one period's sentiment distribution.
type Point struct {
	Period   time.Time
	Negative int
	Neutral  int
	Positive int
}

// OverTime counts sentiment labels per bucket, periods ascending. Records
// without a date or label are dropped.
func OverTime(records []domain.ComplaintRecord, bucket trend.Bucket) []Point {
	byPeriod := make(map[time.Time]*Point)
	for _, rec := range records {
		if !rec.HasDate() || rec.Classification.Sentiment == "" {
			continue
		}
		period := bucket.Truncate(rec.Date)
		p := byPeriod[period]
		if p == nil {
			p = &Point{Period: period}
			byPeriod[period] = p
		}
		switch rec.Classification.Sentiment {
		case domain.SentimentNegative:
			p.Negative++
		case domain.SentimentNeutral:
			p.Neutral++
		case domain.SentimentPositive:
			p.Positive++
		}
	}

	points := make([]Point, 0, len(byPeriod))
	for _, p := range byPeriod {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period.Before(points[j].Period) })
	return points
}
