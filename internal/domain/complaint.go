package domain

import "time"

// ComplaintRecord is one normalized customer complaint. ComplaintID and
// ComplaintText are mandatory; every other string field defaults to "" and a
// missing date is the zero time, so consumers never check for field presence.
type ComplaintRecord struct {
	ComplaintID    string
	Date           time.Time
	ProductLine    string
	Customer       string
	ComplaintText  string
	LotNumber      string
	ProductionLine string

	Classification ClassificationResult
}

func (r ComplaintRecord) HasDate() bool {
	return !r.Date.IsZero()
}

// ClassificationResult carries the AI-derived enrichment for a record.
// Exactly one of {populated classification fields, non-empty Error} is the
// real outcome; an error annotates the record, it never discards it.
type ClassificationResult struct {
	DefectType          string `json:"defect_type"`
	DefectSubtype       string `json:"defect_subtype"`
	Severity            string `json:"severity"`
	RootCauseHypothesis string `json:"root_cause_hypothesis"`
	Sentiment           string `json:"sentiment"`
	Summary             string `json:"summary"`
	Error               string `json:"-"`
}

func (c ClassificationResult) Failed() bool {
	return c.Error != ""
}

func (c ClassificationResult) IsEmpty() bool {
	return c == ClassificationResult{}
}

const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

const (
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentPositive = "positive"
)

// TrendPoint is one observed bucket in a complaint-count series. Periods with
// zero records do not appear.
type TrendPoint struct {
	Period      time.Time
	Count       int
	RollingMean float64
	RollingStd  float64
}

type DefectTrendPoint struct {
	Period     time.Time
	DefectType string
	Count      int
}

// AnomalyFinding is one flagged period. Scope is "" for the global detector
// and the production line name for the per-line detector; TopDefect is only
// set by the per-line detector.
type AnomalyFinding struct {
	Scope       string
	Period      time.Time
	PeriodLabel string
	Count       int
	Mean        float64
	Std         float64
	ZScore      float64
	TopDefect   string
	Description string
}
