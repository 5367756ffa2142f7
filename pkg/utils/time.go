package utils

import "time"

// sortableLayout is RFC3339 with a fixed nine digit fraction, so that
// timestamps compare the same way as strings as they do as instants.
const sortableLayout = "2006-01-02T15:04:05.000000000Z"

// SortableTimestamp formats t in UTC for use inside sort keys
func SortableTimestamp(t time.Time) string {
	return t.UTC().Format(sortableLayout)
}

// ParseTimestamp parses an RFC3339 timestamp, returning the zero time when s is malformed
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
