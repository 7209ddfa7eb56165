package translate

import (
	"fmt"
	"strings"
	"time"
)

// cmrTimeLayout is the timestamp format used in CMR temporal parameters.
const cmrTimeLayout = "2006-01-02T15:04:05Z"

// openStart is substituted for an open interval start, since CMR's temporal
// clause is keyed on its start value.
const openStart = "1970-01-01T00:00:00Z"

// ParseDateTimeInterval parses a STAC datetime parameter which can be:
// - A single RFC3339 datetime: "2023-06-15T14:00:00Z"
// - An open-ended interval: "../2023-06-15T14:00:00Z" or "2023-06-15T14:00:00Z/.."
// - A closed interval: "2023-06-15T14:00:00Z/2023-06-16T14:00:00Z"
// Returns start and end times. Either may be nil for open-ended intervals.
func ParseDateTimeInterval(datetime string) (*time.Time, *time.Time, error) {
	datetime = strings.TrimSpace(datetime)
	if datetime == "" {
		return nil, nil, nil
	}

	if !strings.Contains(datetime, "/") {
		t, err := time.Parse(time.RFC3339, datetime)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidDateTime, err)
		}
		return &t, &t, nil
	}

	parts := strings.Split(datetime, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: interval must be 'start/end'", ErrInvalidDateTime)
	}

	start, err := parseBound(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: start: %w", ErrInvalidDateTime, err)
	}
	end, err := parseBound(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: end: %w", ErrInvalidDateTime, err)
	}

	if start == nil && end == nil {
		return nil, nil, fmt.Errorf("%w: interval cannot be open at both ends", ErrInvalidDateTime)
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, nil, fmt.Errorf("%w: end is before start", ErrInvalidDateTime)
	}

	return start, end, nil
}

func parseBound(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == ".." {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TemporalFromDateTime converts a STAC datetime parameter into the start and
// end values of a CMR temporal clause. An open end yields an empty end value.
func TemporalFromDateTime(datetime string) (start, end string, err error) {
	s, e, err := ParseDateTimeInterval(datetime)
	if err != nil {
		return "", "", err
	}
	if s == nil && e == nil {
		return "", "", nil
	}

	if s == nil {
		start = openStart
	} else {
		start = FormatCMRTime(*s)
	}
	if e != nil {
		end = FormatCMRTime(*e)
	}
	return start, end, nil
}

// FormatCMRTime formats t in UTC for CMR queries.
func FormatCMRTime(t time.Time) string {
	return t.UTC().Format(cmrTimeLayout)
}
