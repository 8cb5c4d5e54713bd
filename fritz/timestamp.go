package fritz

import (
	"fmt"
	"time"
)

// timestampLayout matches the router's log columns: "dd.mm.yy" dates and
// "HH:MM:SS" clock times. Two-digit years expand per Go's convention,
// 69-99 -> 19xx and 00-68 -> 20xx.
const timestampLayout = "02.01.06 15:04:05"

// ParseTimestamp converts an entry's date and time columns to epoch seconds
// in the local timezone.
func ParseTimestamp(date string, clock string) (int64, error) {
	return ParseTimestampIn(date, clock, time.Local)
}

// ParseTimestampIn is ParseTimestamp with an explicit location, which keeps
// tests deterministic.
func ParseTimestampIn(date string, clock string, loc *time.Location) (int64, error) {
	ts, err := time.ParseInLocation(timestampLayout, date+" "+clock, loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedTimestamp, err)
	}
	return ts.Unix(), nil
}
