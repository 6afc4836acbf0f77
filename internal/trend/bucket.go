package trend

import (
	"fmt"
	"time"
)

// Bucket is the calendar interval used to group timestamped records.
type Bucket string

const (
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case BucketWeek, BucketMonth:
		return Bucket(s), nil
	}
	return "", fmt.Errorf("unknown bucket '%s': must be 'week' or 'month'", s)
}

// Truncate maps a timestamp to the start of its bucket: Monday 00:00 for
// weeks, the 1st for months. Timestamps are normalized to UTC first so
// records carrying different offsets share one period key.
func (b Bucket) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if b == BucketWeek {
		weekday := t.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		daysFromMonday := int(weekday) - int(time.Monday)
		return time.Date(t.Year(), t.Month(), t.Day()-daysFromMonday, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Label renders the period key used in findings: "2006-01" for months,
// "2006-01-02" for weeks.
func (b Bucket) Label(t time.Time) string {
	if b == BucketWeek {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01")
}
