package classify

import (
	"context"

	"vocanalyzer/internal/domain"
)

// ProgressFunc is invoked once per record, before its classification attempt.
type ProgressFunc func(current, total int, complaintID string)

// ClassifyBatch runs every record through the classifier strictly
// sequentially and returns one result per input record, in input order. A
// failure classifying one record is recorded on that result and never aborts
// the batch. Records are matched to results by position, so duplicate
// complaint IDs are classified independently.
func ClassifyBatch(ctx context.Context, c Classifier, records []domain.ComplaintRecord, onProgress ProgressFunc) []domain.ClassificationResult {
	n := len(records)
	results := make([]domain.ClassificationResult, n)

	for i, rec := range records {
		if onProgress != nil {
			onProgress(i+1, n, rec.ComplaintID)
		}
		results[i] = c.Classify(ctx, rec)
	}
	return results
}

// DemoClassifiedData enriches records from the static demo table without any
// service call. Pure function of the complaint IDs: applying it twice yields
// identical output.
func DemoClassifiedData(records []domain.ComplaintRecord) []domain.ComplaintRecord {
	out := make([]domain.ComplaintRecord, len(records))
	copy(out, records)
	for i := range out {
		out[i].Classification = demoClassifications[out[i].ComplaintID]
	}
	return out
}
