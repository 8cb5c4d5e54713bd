package fritz

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// logPage holds the slice of data.lua's JSON response the collector reads.
type logPage struct {
	Data struct {
		Log [][]any `json:"log"`
	} `json:"data"`
}

// DataURL points baseURL at the data endpoint.
func DataURL(baseURL string) string {
	if strings.HasSuffix(baseURL, "/") {
		return baseURL + "data.lua"
	}
	if strings.Contains(baseURL, "data.lua") {
		return baseURL
	}
	return baseURL + "/data.lua"
}

// FetchEventLog retrieves the device event log for an authenticated session.
// The endpoint delivers rows [date, time, message, code] newest-first; the
// result is reversed to oldest-first, filtered through the exclusion rules,
// and each surviving entry carries its derived epoch timestamp.
func FetchEventLog(t Transport, baseURL string, sid string, excludes []ExclusionRule) ([]LogEntry, error) {
	form := url.Values{}
	form.Set("xhr", "1")
	form.Set("sid", sid)
	form.Set("lang", "de")
	form.Set("page", "log")
	form.Set("xhrId", "log")

	status, body, err := t.PostForm(DataURL(baseURL), form)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve event log: %w", err)
	}
	if status != 200 {
		return nil, &RetrievalError{StatusCode: status}
	}

	var page logPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode event log: %w", err)
	}

	rows := page.Data.Log
	entries := make([]LogEntry, 0, len(rows))
	// Reverse to oldest-first so the persisted store stays chronological.
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if len(row) < 4 {
			return nil, fmt.Errorf("failed to decode event log: row has %d fields, want 4", len(row))
		}
		date := fieldString(row[0])
		clock := fieldString(row[1])
		message := fieldString(row[2])
		code := fieldString(row[3])

		if Excluded(message, excludes) {
			continue
		}
		ts, err := ParseTimestamp(date, clock)
		if err != nil {
			return nil, err
		}
		entries = append(entries, LogEntry{
			Timestamp: ts,
			Date:      date,
			Time:      clock,
			Message:   message,
			Code:      code,
		})
	}
	return entries, nil
}

// fieldString coerces one log row element. Rows are usually all strings, but
// some firmwares deliver the code column as a JSON number.
func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
