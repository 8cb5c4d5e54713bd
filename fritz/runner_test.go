package fritz

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func routerTransport(t *testing.T, logJSON string) *mockTransport {
	t.Helper()
	mt := &mockTransport{
		getBody: sessionInfoXML(invalidSID, "abc123", 0),
	}
	mt.postFunc = func(u string, form url.Values) (int, []byte, error) {
		if strings.Contains(u, "login_sid.lua") {
			return 200, []byte("<SessionInfo><SID>9c977765016899f8</SID></SessionInfo>"), nil
		}
		return 200, []byte(logJSON), nil
	}
	return mt
}

func TestNewRunner_RequiresPassword(t *testing.T) {
	if _, err := NewRunner(RunnerConfig{}); err == nil {
		t.Fatalf("expected error for missing password")
	}
}

func TestRunner_RunOnceCollectsAndIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	logPath := filepath.Join(tmp, "fritzLog.csv")
	dbPath := filepath.Join(tmp, "fritzLog.db")
	logJSON := `{"data":{"log":[
		["02.01.24","00:00:05","second","21"],
		["01.01.24","00:00:01","first","20"],
		["01.01.24","00:00:00","noise to drop","19"]
	]}}`

	runner, err := NewRunner(RunnerConfig{
		BoxURL:    "http://fritz.box",
		Username:  "logger",
		Password:  "testpwd",
		Excludes:  []ExclusionRule{{All: []string{"noise"}}},
		LogPath:   logPath,
		ArchiveDB: dbPath,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	mt := routerTransport(t, logJSON)
	runner.transport = mt
	runner.sleep = func(time.Duration) {}

	if err := runner.RunOnce(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), string(b))
	}
	if !strings.Contains(lines[1], ";first;") || !strings.Contains(lines[2], ";second;") {
		t.Fatalf("expected chronological rows, got:\n%s", string(b))
	}
	if strings.Contains(string(b), "noise") {
		t.Fatalf("excluded entry persisted:\n%s", string(b))
	}

	var count int64
	if err := runner.db.Model(&ArchivedEntry{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 archived rows, got %d", count)
	}

	// Second run sees the same device log and must append nothing.
	if err := runner.RunOnce(); err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(b2) != string(b) {
		t.Fatalf("expected store unchanged after second run:\n%s", string(b2))
	}
	if err := runner.db.Model(&ArchivedEntry{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected archive unchanged, got %d rows", count)
	}
}

func TestRunner_RetrievalFailurePersistsNothing(t *testing.T) {
	tmp := t.TempDir()
	logPath := filepath.Join(tmp, "fritzLog.csv")

	runner, err := NewRunner(RunnerConfig{
		Username: "logger",
		Password: "testpwd",
		LogPath:  logPath,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	mt := &mockTransport{getBody: sessionInfoXML(invalidSID, "abc123", 0)}
	mt.postFunc = func(u string, form url.Values) (int, []byte, error) {
		if strings.Contains(u, "login_sid.lua") {
			return 200, []byte("<SessionInfo><SID>9c977765016899f8</SID></SessionInfo>"), nil
		}
		return 500, []byte("boom"), nil
	}
	runner.transport = mt
	runner.sleep = func(time.Duration) {}

	err = runner.RunOnce()
	var re *RetrievalError
	if !errors.As(err, &re) || re.StatusCode != 500 {
		t.Fatalf("expected retrieval error with status 500, got %v", err)
	}
	if _, statErr := os.Stat(logPath); statErr == nil {
		t.Fatalf("expected no store file after failed retrieval")
	}
}

func TestRunner_InvalidCredentialsAbortsRun(t *testing.T) {
	runner, err := NewRunner(RunnerConfig{
		Username: "logger",
		Password: "wrong",
		LogPath:  filepath.Join(t.TempDir(), "fritzLog.csv"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	mt := &mockTransport{
		getBody:  sessionInfoXML(invalidSID, "abc123", 0),
		postBody: sessionInfoXML(invalidSID, "abc123", 10),
	}
	runner.transport = mt
	runner.sleep = func(time.Duration) {}

	if err := runner.RunOnce(); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestRunner_MonthlyRollingArchivePath(t *testing.T) {
	tmp := t.TempDir()
	runner, err := NewRunner(RunnerConfig{
		Username:      "logger",
		Password:      "testpwd",
		LogPath:       filepath.Join(tmp, "fritzLog.csv"),
		ArchiveFolder: filepath.Join(tmp, "archive"),
		ArchivePrefix: "fritz_",
	})
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	now := time.Now()
	want := filepath.Join(tmp, "archive", now.Format("fritz_200601")+".db")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected rolling archive at %s: %v", want, err)
	}
}
