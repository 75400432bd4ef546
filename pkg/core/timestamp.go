package core

import (
	"strings"
	"time"
)

// TimestampLayout is the canonical ISO-8601 form carried by package nodes.
const TimestampLayout = "2006-01-02T15:04:05"

// timestampLayouts are the raw forms the source is known to emit.
// Order matters: more specific layouts first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 3:04:05 PM",
	"01/02/2006 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp parses a raw source timestamp and renders it in the
// canonical layout. There is no partial or best-effort parse: a raw value
// matching none of the known layouts yields a TimestampError.
func NormalizeTimestamp(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &TimestampError{Raw: raw}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(TimestampLayout), nil
		}
	}
	return "", &TimestampError{Raw: raw}
}
