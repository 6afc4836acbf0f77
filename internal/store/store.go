// Package store holds the session's complaint records in memory. The store is
// owned by the calling session: only the batch classifier writes
// classification fields, and concurrent batches against the same store must
// be serialized by the caller.
package store

import "vocanalyzer/internal/domain"

type RecordStore struct {
	records []domain.ComplaintRecord
}

func New() *RecordStore {
	return &RecordStore{}
}

// Replace swaps in a new record set, discarding any previous session data.
func (s *RecordStore) Replace(records []domain.ComplaintRecord) {
	s.records = make([]domain.ComplaintRecord, len(records))
	copy(s.records, records)
}

// Records returns a copy of the table so read-only consumers cannot observe
// in-place classification writes mid-batch.
func (s *RecordStore) Records() []domain.ComplaintRecord {
	out := make([]domain.ComplaintRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *RecordStore) Len() int {
	return len(s.records)
}

func (s *RecordStore) Clear() {
	s.records = nil
}

// SetClassifications merges results into the table by position, not by
// complaint ID, so duplicate IDs keep their own independent results. It
// returns how many records classified cleanly and how many carry an error.
func (s *RecordStore) SetClassifications(results []domain.ClassificationResult) (classified, failed int) {
	n := len(results)
	if len(s.records) < n {
		n = len(s.records)
	}
	for i := 0; i < n; i++ {
		s.records[i].Classification = results[i]
		if results[i].Failed() {
			failed++
		} else {
			classified++
		}
	}
	return classified, failed
}
