package fritz

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"
)

type RunnerConfig struct {
	// Router base URL. Defaults to http://fritz.box.
	BoxURL   string
	Username string
	Password string
	Excludes []ExclusionRule
	// CSV store path. Defaults to fritzLog.csv.
	LogPath string
	// Legacy single archive DB path. If ArchiveFolder is set, ArchiveDB is ignored.
	ArchiveDB string
	// Monthly rolling archive settings.
	ArchiveFolder string
	ArchivePrefix string
	// HTTP timeout for router requests.
	Timeout time.Duration
	Debug   bool
}

type Runner struct {
	cfg       RunnerConfig
	transport Transport
	sleep     func(time.Duration)
	db        *gorm.DB
	dbKey     string
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if strings.TrimSpace(cfg.BoxURL) == "" {
		cfg.BoxURL = "http://fritz.box"
	}
	if strings.TrimSpace(cfg.LogPath) == "" {
		cfg.LogPath = "fritzLog.csv"
	}
	if strings.TrimSpace(cfg.Password) == "" {
		return nil, fmt.Errorf("Password is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	r := &Runner{
		cfg:       cfg,
		transport: NewHTTPTransport(cfg.Timeout),
		sleep:     time.Sleep,
	}
	if r.archiveEnabled() {
		if err := r.ensureDBForNow(); err != nil {
			_ = r.Close()
			return nil, err
		}
	}
	return r, nil
}

func (r *Runner) archiveEnabled() bool {
	return strings.TrimSpace(r.cfg.ArchiveFolder) != "" || strings.TrimSpace(r.cfg.ArchiveDB) != ""
}

func (r *Runner) debugf(format string, args ...any) {
	if r == nil || !r.cfg.Debug {
		return
	}
	log.Printf(format, args...)
}

type runStats struct {
	EntriesFetched  int
	EntriesAppended int
	EntriesArchived int
}

// RunOnce performs one full collection: login, fetch + filter, incremental
// CSV append, archive insert. The first failing step aborts the run;
// nothing is persisted unless retrieval and filtering completed.
func (r *Runner) RunOnce() error {
	start := time.Now()
	stats := &runStats{}

	if r.archiveEnabled() {
		if err := r.ensureDBForNow(); err != nil {
			return err
		}
	}
	r.debugf("run_once start: url=%q logPath=%q excludes=%d archive=%v", r.cfg.BoxURL, r.cfg.LogPath, len(r.cfg.Excludes), r.archiveEnabled())

	auth := NewAuthenticator(r.transport, r.cfg.BoxURL)
	auth.sleep = r.sleep
	sid, err := auth.SessionID(r.cfg.Username, r.cfg.Password)
	if err != nil {
		return err
	}
	log.Printf("login ok user=%q sid=%s", r.cfg.Username, sid)

	entries, err := FetchEventLog(r.transport, r.cfg.BoxURL, sid, r.cfg.Excludes)
	if err != nil {
		return err
	}
	stats.EntriesFetched = len(entries)

	appended, err := AppendNewEntries(r.cfg.LogPath, entries, DefaultFieldOrder)
	if err != nil {
		return err
	}
	stats.EntriesAppended = len(appended)

	if r.archiveEnabled() && len(appended) > 0 {
		if err := r.archiveEntries(appended); err != nil {
			return err
		}
		stats.EntriesArchived = len(appended)
	}

	r.debugf("run_once done: fetched=%d appended=%d archived=%d elapsed=%s", stats.EntriesFetched, stats.EntriesAppended, stats.EntriesArchived, time.Since(start))
	return nil
}

func (r *Runner) archiveEntries(entries []LogEntry) error {
	now := time.Now().UTC()
	rows := make([]ArchivedEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ArchivedEntry{
			Timestamp:  e.Timestamp,
			Date:       e.Date,
			Time:       e.Time,
			Message:    e.Message,
			Code:       e.Code,
			ArchivedAt: now,
		})
	}
	return r.db.Create(&rows).Error
}

func (r *Runner) ensureDBForNow() error {
	if strings.TrimSpace(r.cfg.ArchiveFolder) == "" {
		if r.db != nil {
			return nil
		}
		db, err := OpenDB(r.cfg.ArchiveDB)
		if err != nil {
			return err
		}
		r.db = db
		r.dbKey = "static"
		return nil
	}

	now := time.Now()
	key := fmt.Sprintf("%04d%02d", now.Year(), int(now.Month()))
	if r.db != nil && r.dbKey == key {
		return nil
	}
	// switch DB per natural month
	_ = r.Close()
	if strings.TrimSpace(r.cfg.ArchivePrefix) == "" {
		r.cfg.ArchivePrefix = "fritz_"
	}
	if err := os.MkdirAll(r.cfg.ArchiveFolder, 0o755); err != nil {
		return err
	}
	dbPath := filepath.Join(r.cfg.ArchiveFolder, r.cfg.ArchivePrefix+key+".db")
	db, err := OpenDB(dbPath)
	if err != nil {
		return err
	}
	r.db = db
	r.dbKey = key
	return nil
}

func (r *Runner) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	err = sqlDB.Close()
	r.db = nil
	r.dbKey = ""
	return err
}
