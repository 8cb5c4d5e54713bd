package main

import (
	"flag"
	"fmt"
	"fritz-logger/fritz"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }
func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var configPath string
	var boxURL string
	var username string
	var password string
	var logPath string
	var excludes multiFlag
	var dbPath string
	var dbFolder string
	var dbPrefix string
	var timeout time.Duration
	var debug bool
	var once bool
	var pollInterval time.Duration

	flag.StringVar(&configPath, "config", "", "YAML settings file path. Defaults to settings.yaml next to the executable.")
	flag.StringVar(&boxURL, "url", "http://fritz.box", "Router base URL.")
	flag.StringVar(&username, "username", "", "Router login username.")
	flag.StringVar(&password, "password", "", "Router login password. Prefer the settings file.")
	flag.StringVar(&logPath, "logpath", "fritzLog.csv", "CSV store path.")
	flag.Var(&excludes, "exclude", "Exclusion rule: a substring, or comma-separated substrings that must all match. Can be repeated.")
	flag.StringVar(&dbPath, "db", "", "Optional SQLite archive path.")
	flag.StringVar(&dbFolder, "db-folder", "", "Monthly rolling archive folder (overrides config.archive.folder).")
	flag.StringVar(&dbPrefix, "db-prefix", "", "Monthly rolling archive prefix (overrides config.archive.prefix).")
	flag.DurationVar(&timeout, "timeout", 15*time.Second, "HTTP timeout for router requests.")
	flag.BoolVar(&debug, "debug", false, "Enable debug logs.")
	flag.BoolVar(&once, "once", true, "Run once and exit (default true for crontab).")
	flag.DurationVar(&pollInterval, "poll-interval", 15*time.Minute, "Polling interval when running with --once=false.")
	flag.Parse()

	visited := map[string]bool{}
	flag.CommandLine.Visit(func(f *flag.Flag) {
		visited[f.Name] = true
	})

	// Base config from file. Without -config, look next to the executable.
	fileCfg := &fritz.FileConfig{}
	settingsPath := configPath
	if settingsPath == "" {
		settingsPath = defaultSettingsPath()
		if _, err := os.Stat(settingsPath); err != nil {
			example := strings.Replace(settingsPath, "settings.yaml", "ex_settings.yaml", 1)
			if _, exErr := os.Stat(example); exErr == nil {
				fmt.Fprintln(os.Stderr, "No 'settings.yaml' found.")
				fmt.Fprintln(os.Stderr, "Rename 'ex_settings.yaml' to 'settings.yaml' and fill in your data, then start again.")
				os.Exit(2)
			}
			settingsPath = ""
		}
	}
	if settingsPath != "" {
		cfg, err := fritz.LoadConfig(settingsPath)
		if err != nil {
			log.Fatalf("load settings: %v", err)
		}
		fileCfg = cfg
	}

	// Merge config + CLI overrides
	finalURL := fileCfg.URL
	if finalURL == "" || visited["url"] {
		finalURL = boxURL
	}
	finalUsername := fileCfg.Username
	if visited["username"] {
		finalUsername = username
	}
	finalPassword := fileCfg.Password
	if visited["password"] {
		finalPassword = password
	}
	finalLogPath := fileCfg.LogPath
	if finalLogPath == "" || visited["logpath"] {
		finalLogPath = logPath
	}
	finalDebug := fileCfg.Debug
	if visited["debug"] {
		finalDebug = debug
	}

	finalDB := fileCfg.Archive.DB
	if visited["db"] {
		finalDB = dbPath
	}
	finalDBFolder := fileCfg.Archive.Folder
	if visited["db-folder"] {
		finalDBFolder = dbFolder
	}
	finalDBPrefix := fileCfg.Archive.Prefix
	if visited["db-prefix"] {
		finalDBPrefix = dbPrefix
	}

	finalExcludes := fileCfg.Exclude
	if visited["exclude"] {
		finalExcludes = make([]fritz.ExclusionRule, 0, len(excludes))
		for _, e := range excludes {
			parts := make([]string, 0)
			for _, p := range strings.Split(e, ",") {
				p = strings.TrimSpace(p)
				if p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) > 0 {
				finalExcludes = append(finalExcludes, fritz.ExclusionRule{All: parts})
			}
		}
	}

	if strings.TrimSpace(finalPassword) == "" {
		fmt.Fprintln(os.Stderr, "missing password (use settings.yaml or --password)")
		os.Exit(2)
	}

	runner, err := fritz.NewRunner(fritz.RunnerConfig{
		BoxURL:        finalURL,
		Username:      finalUsername,
		Password:      finalPassword,
		Excludes:      finalExcludes,
		LogPath:       finalLogPath,
		ArchiveDB:     finalDB,
		ArchiveFolder: finalDBFolder,
		ArchivePrefix: finalDBPrefix,
		Timeout:       timeout,
		Debug:         finalDebug,
	})
	if err != nil {
		log.Fatalf("init runner: %v", err)
	}
	defer runner.Close()

	if once {
		if err := runner.RunOnce(); err != nil {
			log.Fatalf("run once: %v", err)
		}
		return
	}

	for {
		if err := runner.RunOnce(); err != nil {
			log.Printf("run once error: %v", err)
		}
		time.Sleep(pollInterval)
	}
}

func defaultSettingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return filepath.Join(filepath.Dir(exe), "settings.yaml")
}
