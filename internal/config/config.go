package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"pdf-toolkit/internal/domain"
)

// Result backends.
const (
	ResultBackendMemory   = "memory"
	ResultBackendSupabase = "supabase"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort          string
	MaxFileSize         int64
	MaxFiles            int
	LogLevel            string
	LogFormat           string
	AllowedOrigins      []string
	PublicBaseURL       string
	ResultTTL           time.Duration
	SessionTTL          time.Duration
	ResultBackend       string
	SupabaseURL         string
	SupabaseKey         string
	SupabaseBucket      string
	DatabasePath        string
	ChromePath          string
	BrowserAutoDownload bool
	ConvertTimeout      time.Duration
	TextExtractor       string
	DisabledTools       []string
	AdminSecret         string
}

// Local front-end dev servers: Vite dev, Vite preview and port 3000.
var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4173",
	"http://localhost:3000",
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:          getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		MaxFileSize:         getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		MaxFiles:            int(getEnvInt64OrDefault("MAX_FILES", 20)),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "text"),
		AllowedOrigins:      getEnvListOrDefault("ALLOWED_ORIGINS", defaultAllowedOrigins),
		PublicBaseURL:       getEnvOrDefault("PUBLIC_BASE_URL", ""),
		ResultTTL:           getEnvDurationOrDefault("RESULT_TTL", time.Hour),
		SessionTTL:          getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
		ResultBackend:       strings.ToLower(getEnvOrDefault("RESULT_BACKEND", ResultBackendMemory)),
		SupabaseURL:         getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:         getEnvOrDefault("SUPABASE_KEY", getEnvOrDefault("SUPABASE_ANON_KEY", "")),
		SupabaseBucket:      getEnvOrDefault("SUPABASE_BUCKET", "pdf-results"),
		DatabasePath:        getEnvOrDefault("DATABASE_PATH", "./data/suggestions.db"),
		ChromePath:          getEnvOrDefault("CHROME_PATH", ""),
		BrowserAutoDownload: getEnvBoolOrDefault("BROWSER_AUTO_DOWNLOAD", false),
		ConvertTimeout:      getEnvDurationOrDefault("CONVERT_TIMEOUT", 60*time.Second),
		TextExtractor:       getEnvOrDefault("TEXT_EXTRACTOR", "pure"),
		DisabledTools:       getEnvListOrDefault("DISABLED_TOOLS", nil),
		AdminSecret:         getEnvOrDefault("ADMIN_API_SECRET", ""),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetMaxFileSize returns the maximum allowed request body size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetMaxFiles caps the files in one merge. Zero means no cap.
func (c *AppConfig) GetMaxFiles() int {
	return c.MaxFiles
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetLogFormat returns text or json
func (c *AppConfig) GetLogFormat() string {
	return c.LogFormat
}

func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// GetPublicBaseURL prefixes download links. Empty yields relative links.
func (c *AppConfig) GetPublicBaseURL() string {
	return c.PublicBaseURL
}

func (c *AppConfig) GetResultTTL() time.Duration {
	return c.ResultTTL
}

func (c *AppConfig) GetSessionTTL() time.Duration {
	return c.SessionTTL
}

// GetResultBackend returns memory or supabase
func (c *AppConfig) GetResultBackend() string {
	return c.ResultBackend
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetSupabaseBucket returns the storage bucket holding results
func (c *AppConfig) GetSupabaseBucket() string {
	return c.SupabaseBucket
}

// GetDatabasePath returns the SQLite file for suggestions
func (c *AppConfig) GetDatabasePath() string {
	return c.DatabasePath
}

func (c *AppConfig) GetChromePath() string {
	return c.ChromePath
}

func (c *AppConfig) GetBrowserAutoDownload() bool {
	return c.BrowserAutoDownload
}

func (c *AppConfig) GetConvertTimeout() time.Duration {
	return c.ConvertTimeout
}

// GetTextExtractor returns pure or fitz
func (c *AppConfig) GetTextExtractor() string {
	return c.TextExtractor
}

func (c *AppConfig) GetDisabledTools() []string {
	return c.DisabledTools
}

// GetAdminSecret guards the admin endpoints. Empty disables them.
func (c *AppConfig) GetAdminSecret() string {
	return c.AdminSecret
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s") or plain seconds.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return SplitList(value)
}

// SplitList splits comma separated values, dropping blanks. Each value may
// itself hold several entries, so flag slices and env strings both work.
func SplitList(values ...string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
