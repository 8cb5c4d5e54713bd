package fritz

import "time"

// LogEntry is one router event. Timestamp is derived from Date+Time and
// keys the incremental append; entries are immutable once constructed.
type LogEntry struct {
	Timestamp int64
	Date      string
	Time      string
	Message   string
	Code      string
}

// ArchivedEntry is the SQLite archive row mirroring one persisted CSV line.
// The archive only receives entries that already passed the CSV store's
// last-timestamp gate, so it needs no uniqueness constraint of its own.
type ArchivedEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Timestamp  int64     `gorm:"index"`
	Date       string    `gorm:"size:8"`
	Time       string    `gorm:"size:8"`
	Message    string    `gorm:"type:text"`
	Code       string    `gorm:"size:16"`
	ArchivedAt time.Time `gorm:"index"`
}
