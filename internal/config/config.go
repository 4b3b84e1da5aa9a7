// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// History backends.
const (
	HistoryBackendTabular = "tabular"
	HistoryBackendSQLite  = "sqlite"
	HistoryBackendBadger  = "badger"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	TMDB    TMDBConfig
	History HistoryConfig
	Server  ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	File  string // Optional JSON log file, written alongside the console
}

// DataConfig holds local storage configuration.
type DataConfig struct {
	BasePath string
}

// TMDBConfig holds catalog provider configuration.
type TMDBConfig struct {
	// APIKey is the v3 key sent as the api_key query parameter.
	APIKey string
	// AccessToken is the v4 read access token sent as a bearer token.
	AccessToken  string
	BaseURL      string
	ImageBaseURL string
	Language     string        // Optional, e.g. "en-US"
	Timeout      time.Duration // Per-request timeout (default: 30s)
	RPS          float64       // Outbound requests per second per endpoint (default: 10)
	Burst        int           // Burst size (default: 20)
	// BreakerFailures consecutive failures open the circuit (default: 5, negative disables).
	BreakerFailures int
	BreakerTimeout  time.Duration // How long the circuit stays open (default: 30s)
}

// HistoryConfig holds search history storage configuration.
type HistoryConfig struct {
	Backend string // tabular, sqlite or badger
	Path    string // File or directory, defaults under Data.BasePath
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	RateLimit      int // Requests per minute per client on query endpoints, 0 disables
	RateBurst      int
	TrustProxy     bool // Honor X-Forwarded-For / X-Real-IP from a reverse proxy
}

// flags holds raw flag values. Flags are registered on the given FlagSet so
// both binaries and tests can load configuration without touching flag.CommandLine.
type flags struct {
	env, logLevel, logFile, dataPath              *string
	tmdbAPIKey, tmdbAccessToken, tmdbBaseURL      *string
	tmdbImageBaseURL, tmdbLanguage, tmdbTimeout   *string
	tmdbRPS, tmdbBurst                            *string
	tmdbBreakerFailures, tmdbBreakerTimeout       *string
	historyBackend, historyPath                   *string
	port, readTimeout, writeTimeout, idleTimeout  *string
	corsOrigins, rateLimit, rateBurst, trustProxy *string
	envFile                                       *string
}

func registerFlags(fs *flag.FlagSet) *flags {
	return &flags{
		env:                 fs.String("env", "", "Environment (development, staging, production)"),
		logLevel:            fs.String("log-level", "", "Log level (debug, info, warn, error)"),
		logFile:             fs.String("log-file", "", "Also write JSON logs to this file"),
		dataPath:            fs.String("data-path", "", "Base path for local data (default: ~/Cinematch)"),
		tmdbAPIKey:          fs.String("tmdb-api-key", "", "TMDB v3 API key"),
		tmdbAccessToken:     fs.String("tmdb-access-token", "", "TMDB v4 read access token"),
		tmdbBaseURL:         fs.String("tmdb-base-url", "", "TMDB API base URL"),
		tmdbImageBaseURL:    fs.String("tmdb-image-base-url", "", "TMDB image base URL"),
		tmdbLanguage:        fs.String("tmdb-language", "", "TMDB response language (e.g. en-US)"),
		tmdbTimeout:         fs.String("tmdb-timeout", "", "TMDB request timeout (default: 30s)"),
		tmdbRPS:             fs.String("tmdb-rps", "", "TMDB requests per second per endpoint (default: 10)"),
		tmdbBurst:           fs.String("tmdb-burst", "", "TMDB request burst (default: 20)"),
		tmdbBreakerFailures: fs.String("tmdb-breaker-failures", "", "Consecutive TMDB failures that open the circuit, negative disables (default: 5)"),
		tmdbBreakerTimeout:  fs.String("tmdb-breaker-timeout", "", "How long an open TMDB circuit waits before probing (default: 30s)"),
		historyBackend:      fs.String("history-backend", "", "Search history backend (tabular, sqlite, badger)"),
		historyPath:         fs.String("history-path", "", "Search history file or directory"),
		port:                fs.String("port", "", "Server port (default: 8080)"),
		readTimeout:         fs.String("read-timeout", "", "HTTP read timeout (default: 15s)"),
		writeTimeout:        fs.String("write-timeout", "", "HTTP write timeout (default: 60s)"),
		idleTimeout:         fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)"),
		corsOrigins:         fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)"),
		rateLimit:           fs.String("rate-limit", "", "Query requests per minute per client, 0 disables (default: 60)"),
		rateBurst:           fs.String("rate-burst", "", "Query request burst per client (default: 10)"),
		trustProxy:          fs.String("trust-proxy", "", "Take client IPs from X-Forwarded-For / X-Real-IP (default: false)"),
		envFile:             fs.String("env-file", ".env", "Path to .env file"),
	}
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load parses args into fs and builds the configuration.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	f := registerFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*f.envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*f.env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*f.logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*f.logFile, "LOG_FILE", ""),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*f.dataPath, "DATA_PATH", ""),
		},
		TMDB: TMDBConfig{
			APIKey:          getConfigValue(*f.tmdbAPIKey, "TMDB_API_KEY", ""),
			AccessToken:     getConfigValue(*f.tmdbAccessToken, "TMDB_ACCESS_TOKEN", ""),
			BaseURL:         strings.TrimRight(getConfigValue(*f.tmdbBaseURL, "TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
			ImageBaseURL:    strings.TrimRight(getConfigValue(*f.tmdbImageBaseURL, "TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"), "/"),
			Language:        getConfigValue(*f.tmdbLanguage, "TMDB_LANGUAGE", ""),
			RPS:             getFloatConfigValue(*f.tmdbRPS, "TMDB_RPS", 10),
			Burst:           getIntConfigValue(*f.tmdbBurst, "TMDB_BURST", 20),
			BreakerFailures: getIntConfigValue(*f.tmdbBreakerFailures, "TMDB_BREAKER_FAILURES", 5),
		},
		History: HistoryConfig{
			Backend: strings.ToLower(getConfigValue(*f.historyBackend, "HISTORY_BACKEND", HistoryBackendTabular)),
			Path:    getConfigValue(*f.historyPath, "HISTORY_PATH", ""),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*f.port, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*f.corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
			RateLimit:      getIntConfigValue(*f.rateLimit, "API_RATE_LIMIT", 60),
			RateBurst:      getIntConfigValue(*f.rateBurst, "API_RATE_BURST", 10),
			TrustProxy:     getBoolConfigValue(*f.trustProxy, "TRUST_PROXY", false),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dest                   *time.Duration
		name                   string
	}{
		{*f.tmdbTimeout, "TMDB_TIMEOUT", "30s", &cfg.TMDB.Timeout, "tmdb timeout"},
		{*f.tmdbBreakerTimeout, "TMDB_BREAKER_TIMEOUT", "30s", &cfg.TMDB.BreakerTimeout, "tmdb breaker timeout"},
		{*f.readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout, "read timeout"},
		{*f.writeTimeout, "SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout, "write timeout"},
		{*f.idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout, "idle timeout"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.name, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	logFile, err := expandPath(cfg.Logger.File, "")
	if err != nil {
		return nil, fmt.Errorf("invalid log file: %w", err)
	}
	cfg.Logger.File = logFile

	if err := cfg.expandHistoryPath(); err != nil {
		return nil, fmt.Errorf("invalid history path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.TMDB.APIKey == "" && c.TMDB.AccessToken == "" {
		return errors.New("TMDB_API_KEY or TMDB_ACCESS_TOKEN is required")
	}

	if c.TMDB.BaseURL == "" {
		return errors.New("TMDB base URL cannot be empty")
	}

	if c.TMDB.Timeout <= 0 {
		return errors.New("TMDB timeout must be positive")
	}

	if c.TMDB.BreakerFailures != 0 && c.TMDB.BreakerTimeout <= 0 {
		return errors.New("TMDB breaker timeout must be positive")
	}

	switch c.History.Backend {
	case HistoryBackendTabular, HistoryBackendSQLite, HistoryBackendBadger:
	default:
		return fmt.Errorf("invalid history backend: %q (must be tabular, sqlite, or badger)", c.History.Backend)
	}

	if c.Server.RateLimit < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.History.Path == "" {
		return errors.New("history path cannot be empty after expansion")
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, returns defaultPath unchanged.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	var defaultPath string
	if c.Data.BasePath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		defaultPath = filepath.Join(homeDir, "Cinematch")
	}

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandHistoryPath defaults the history location per backend:
// tabular -> {data}/movie_search_history.csv, sqlite -> {data}/history.db,
// badger -> {data}/history.
func (c *Config) expandHistoryPath() error {
	var defaultPath string
	switch c.History.Backend {
	case HistoryBackendSQLite:
		defaultPath = filepath.Join(c.Data.BasePath, "history.db")
	case HistoryBackendBadger:
		defaultPath = filepath.Join(c.Data.BasePath, "history")
	default:
		defaultPath = filepath.Join(c.Data.BasePath, "movie_search_history.csv")
	}

	expanded, err := expandPath(c.History.Path, defaultPath)
	if err != nil {
		return err
	}
	c.History.Path = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getBoolConfigValue returns a bool from flag, env var, or default.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Env vars already set take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
