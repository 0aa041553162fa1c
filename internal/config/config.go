package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobsweep"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	ProfileFileName = "profile.yaml"
)

const (
	DriverRod  = "rod"
	DriverHTTP = "http"
)

// Config contains defaults for a sweep.
type Config struct {
	Driver             string `json:"driver"`
	Headless           bool   `json:"headless"`
	ChromePath         string `json:"chrome_path"`
	PageBudget         int    `json:"page_budget"`
	LoadRetries        int    `json:"load_retries"`
	PageTimeoutSeconds int    `json:"page_timeout_seconds"`
	MinPageIntervalMS  int    `json:"min_page_interval_ms"`
	Profile            string `json:"profile"`
	LogFile            string `json:"log_file"`
	UserAgent          string `json:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		Driver:             envString("JOBSWEEP_DRIVER", DriverRod),
		Headless:           envBool("JOBSWEEP_HEADLESS", true),
		ChromePath:         envString("JOBSWEEP_CHROME_PATH", ""),
		PageBudget:         envInt("JOBSWEEP_PAGE_BUDGET", 101),
		LoadRetries:        envInt("JOBSWEEP_LOAD_RETRIES", 4),
		PageTimeoutSeconds: envInt("JOBSWEEP_PAGE_TIMEOUT", 30),
		MinPageIntervalMS:  envInt("JOBSWEEP_MIN_PAGE_INTERVAL_MS", 0),
		Profile:            envString("JOBSWEEP_PROFILE", ""),
		LogFile:            envString("JOBSWEEP_LOG_FILE", ""),
	}
}

// Validate rejects settings a sweep cannot run with.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverRod, DriverHTTP:
	default:
		return fmt.Errorf("driver must be %q or %q, got %q", DriverRod, DriverHTTP, c.Driver)
	}
	if c.PageBudget <= 0 {
		return fmt.Errorf("page_budget must be > 0")
	}
	if c.LoadRetries <= 0 {
		return fmt.Errorf("load_retries must be > 0")
	}
	if c.PageTimeoutSeconds <= 0 {
		return fmt.Errorf("page_timeout_seconds must be > 0")
	}
	if c.MinPageIntervalMS < 0 {
		return fmt.Errorf("min_page_interval_ms must be >= 0")
	}
	return nil
}

func (c Config) PageTimeout() time.Duration {
	return time.Duration(c.PageTimeoutSeconds) * time.Second
}

func (c Config) MinPageInterval() time.Duration {
	return time.Duration(c.MinPageIntervalMS) * time.Millisecond
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFile(path)
}

// LoadFile reads a json5 config over the defaults. A missing or empty file
// yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// InitDir writes default config.json, proxies.txt and profile.yaml into dir
// unless they already exist, returning the paths it created.
func InitDir(dir string) ([]string, error) {
	var created []string

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	profilePath := filepath.Join(dir, ProfileFileName)
	if _, err := os.Stat(profilePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(profilePath, builtinProfiles[DefaultProfile], 0o644); err != nil {
			return created, err
		}
		created = append(created, profilePath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies resolves proxies from the flag, then JOBSWEEP_PROXIES, then
// proxies.txt in the config dir.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("JOBSWEEP_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return ReadList(path, true)
}

// ReadList reads one entry per line, skipping blanks and # comments.
func ReadList(path string, allowMissing bool) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	return entries, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
