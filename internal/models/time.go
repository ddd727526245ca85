package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format for timestamps in request and response
// bodies: seconds precision, no zone designator. Values are read and
// written as UTC.
const TimeLayout = "2006-01-02T15:04:05"

// DateTime wraps time.Time to serialize with TimeLayout.
type DateTime time.Time

func (d DateTime) Time() time.Time { return time.Time(d) }

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(TimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*d = DateTime(time.Time{})
		return nil
	}
	if t, err := time.Parse(TimeLayout, raw); err == nil {
		*d = DateTime(t)
		return nil
	}
	// Clients occasionally send fractional seconds or a zone offset.
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = DateTime(t)
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q, expected %s", raw, TimeLayout)
}
