package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/emilianohg/workday/internal/timesheet"
)

// DefaultGapThresholdHours is the inactivity gap that ends a workday.
const DefaultGapThresholdHours = 10

type Config struct {
	GapThresholdHours  float64  `toml:"gap_threshold_hours"`
	GapPolicy          string   `toml:"gap_policy"`
	AuthorSessionsOnly bool     `toml:"author_sessions_only"`
	StartDate          string   `toml:"start_date"`
	EndDate            string   `toml:"end_date"`
	Authors            []string `toml:"authors"`

	GitHubOwner       string  `toml:"github_owner"`
	GitHubRepo        string  `toml:"github_repo"`
	GitHubToken       string  `toml:"-"`
	Workers           int     `toml:"workers"`
	RequestsPerSecond float64 `toml:"requests_per_second"`

	CacheFile string   `toml:"cache_file"`
	ScanPaths []string `toml:"scan_paths"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		GapThresholdHours: DefaultGapThresholdHours,
		GapPolicy:         "strict",
		Workers:           8,
		RequestsPerSecond: 10,
		CacheFile:         filepath.Join(homeDir, ".workday", "commits.json"),
		ScanPaths:         []string{filepath.Join(homeDir, "Projects")},
	}
}

func WorkdayDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".workday"), nil
}

func ConfigPath() (string, error) {
	dir, err := WorkdayDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := WorkdayDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "workday.sqlite"), nil
}

func ErrorLogPath() (string, error) {
	dir, err := WorkdayDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors.log"), nil
}

func EnsureDirectories() error {
	dir, err := WorkdayDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(dir, "db"), 0755)
}

// Load reads ~/.workday/config.toml, writing defaults on first run, then
// applies .env and environment overrides. The GitHub token falls back to
// the OS keychain.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(configPath, DefaultConfig()); err != nil {
			return nil, err
		}
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	cfg.applyKeyring()
	return cfg, nil
}

// LoadFile decodes a config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.CacheFile = expandPath(cfg.CacheFile)
	for i, p := range cfg.ScanPaths {
		cfg.ScanPaths[i] = expandPath(p)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// loadDotEnv loads a .env file if one exists. Variables already set in the
// environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from GITHUB_*, START_DATE, END_DATE,
// TIME_BETWEEN_COMMITS and GITHUB_USER_EMAIL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		c.GitHubToken = v
	}
	if v := os.Getenv("GITHUB_OWNER"); v != "" {
		c.GitHubOwner = v
	}
	if v := os.Getenv("GITHUB_REPO"); v != "" {
		c.GitHubRepo = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		c.StartDate = v
	}
	if v := os.Getenv("END_DATE"); v != "" {
		c.EndDate = v
	}
	if v := os.Getenv("GITHUB_USER_EMAIL"); v != "" {
		c.Authors = splitList(v)
	}
	if v := os.Getenv("TIME_BETWEEN_COMMITS"); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TIME_BETWEEN_COMMITS %q: %w", v, err)
		}
		c.GapThresholdHours = hours
	}
	return nil
}

// Options builds the calculation options. An empty end date means today in
// now's location.
func (c *Config) Options(now time.Time) (timesheet.Options, error) {
	policy, err := timesheet.ParseGapPolicy(c.GapPolicy)
	if err != nil {
		return timesheet.Options{}, err
	}

	opts := timesheet.Options{
		GapThresholdHours:  c.GapThresholdHours,
		GapPolicy:          policy,
		EndDate:            timesheet.Today(now),
		Authors:            timesheet.NewAuthorSet(c.Authors...),
		AuthorSessionsOnly: c.AuthorSessionsOnly,
	}

	if c.StartDate != "" {
		if opts.StartDate, err = timesheet.ParseDate(c.StartDate); err != nil {
			return timesheet.Options{}, fmt.Errorf("start_date: %w", err)
		}
	}
	if c.EndDate != "" {
		if opts.EndDate, err = timesheet.ParseDate(c.EndDate); err != nil {
			return timesheet.Options{}, fmt.Errorf("end_date: %w", err)
		}
	}

	return opts, opts.Validate()
}

// IsPathTracked checks if a given path is under one of the configured scan paths
func (c *Config) IsPathTracked(repoPath string) bool {
	absRepoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return false
	}

	for _, scanPath := range c.ScanPaths {
		absScanPath, err := filepath.Abs(scanPath)
		if err != nil {
			continue
		}

		rel, err := filepath.Rel(absScanPath, absRepoPath)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}

	return false
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
