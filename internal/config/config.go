package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything Stockroom reads from its config file.
type Config struct {
	APIURL            string
	PageSize          int
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	RefreshEvery      time.Duration // zero disables auto-refresh
	LogFile           string
	LogLevel          string
	SessionPath       string
}

const (
	defaultConfigPath        = "~/.config/stockroom/config.toml"
	defaultStateDir          = "~/.local/state/stockroom"
	defaultAPIURL            = "https://dummyjson.com"
	defaultPageSize          = 20
	defaultRequestTimeout    = 10 * time.Second
	defaultRequestsPerSecond = 5
	defaultLogLevel          = "info"
	maxPageSize              = 100
)

// Default returns the configuration used when no file exists.
func Default() Config {
	stateDir := mustExpand(defaultStateDir)
	return Config{
		APIURL:            defaultAPIURL,
		PageSize:          defaultPageSize,
		RequestTimeout:    defaultRequestTimeout,
		RequestsPerSecond: defaultRequestsPerSecond,
		LogFile:           filepath.Join(stateDir, "stockroom.log"),
		LogLevel:          defaultLogLevel,
		SessionPath:       filepath.Join(stateDir, "session.toml"),
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, errors.Wrap(err, "open config")
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}

	var raw struct {
		APIURL            string  `toml:"api_url"`
		PageSize          int     `toml:"page_size"`
		RequestTimeout    string  `toml:"request_timeout"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		RefreshEvery      string  `toml:"refresh_every"`
		LogFile           string  `toml:"log_file"`
		LogLevel          string  `toml:"log_level"`
		SessionPath       string  `toml:"session_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = min(raw.PageSize, maxPageSize)
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	if cfg.RequestTimeout, err = parseDuration(raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, errors.Wrap(err, "parse request_timeout")
	}
	if cfg.RefreshEvery, err = parseDuration(raw.RefreshEvery, 0); err != nil {
		return Config{}, errors.Wrap(err, "parse refresh_every")
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}

	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.Errorf("duration %q is negative", value)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
