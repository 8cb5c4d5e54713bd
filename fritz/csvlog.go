package fritz

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// DefaultFieldOrder is the CSV store's header row and column order.
var DefaultFieldOrder = []string{"Timestamp", "Date", "Time", "Message", "Code"}

const csvDelimiter = ";"

// LastTimestamp reads the Timestamp column of the store's final row. A
// missing or empty file, or an unparsable final row (the header, for a
// freshly created store), degrades to 1 so the next append accepts
// everything instead of failing the run.
func LastTimestamp(path string) int64 {
	b, err := os.ReadFile(path)
	if err != nil {
		return 1
	}
	lines := strings.Split(strings.TrimRight(string(b), "\r\n"), "\n")
	last := lines[len(lines)-1]
	fields := strings.Split(last, csvDelimiter)
	ts, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return 1
	}
	return ts
}

// AppendNewEntries appends, in the given order, the entries whose timestamp
// is strictly newer than the store's last persisted row, creating the store
// with a header row when absent. Existing rows are never rewritten or
// re-sorted; entries are assumed to arrive oldest-first. Returns the entries
// actually appended.
//
// Values are written verbatim, so a semicolon inside a message breaks column
// alignment on read-back. Known limitation of the store format.
func AppendNewEntries(path string, entries []LogEntry, fields []string) ([]LogEntry, error) {
	_, statErr := os.Stat(path)
	fileExists := statErr == nil

	lastTimestamp := LastTimestamp(path)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if !fileExists {
		if _, err := w.WriteString(strings.Join(fields, csvDelimiter) + "\n"); err != nil {
			return nil, err
		}
	}

	appended := make([]LogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp <= lastTimestamp {
			continue
		}
		if _, err := w.WriteString(formatRow(e, fields) + "\n"); err != nil {
			return nil, err
		}
		appended = append(appended, e)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return appended, nil
}

func formatRow(e LogEntry, fields []string) string {
	values := make([]string, 0, len(fields))
	for _, f := range fields {
		switch f {
		case "Timestamp":
			values = append(values, strconv.FormatInt(e.Timestamp, 10))
		case "Date":
			values = append(values, e.Date)
		case "Time":
			values = append(values, e.Time)
		case "Message":
			values = append(values, e.Message)
		case "Code":
			values = append(values, e.Code)
		default:
			values = append(values, "")
		}
	}
	return strings.Join(values, csvDelimiter)
}
