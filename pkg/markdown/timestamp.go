package markdown

import "time"

// timestampLayout renders minute precision; seconds are truncated, not
// rounded, for readability in the generated documents.
const timestampLayout = "2006-01-02T15:04"

// FormatTimestamp converts optional epoch seconds to "YYYY-MM-DDTHH:MM" in
// the given location (local time when loc is nil). Absent input yields "".
func FormatTimestamp(epoch *float64, loc *time.Location) string {
	if epoch == nil {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(int64(*epoch), 0).In(loc).Format(timestampLayout)
}
