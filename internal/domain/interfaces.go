package domain

import (
	"context"
	"time"
)

// PDFEngine delegates page-level work to the PDF library.
type PDFEngine interface {
	PageCount(ctx context.Context, content []byte) (int, error)
	Info(ctx context.Context, content []byte) (*DocumentInfo, error)
	Merge(ctx context.Context, docs [][]byte, plan []PageRef) ([]byte, error)
	Split(ctx context.Context, content []byte, ranges []PageRange) ([][]byte, error)
	Compress(ctx context.Context, content []byte, level CompressionLevel) ([]byte, error)
	Watermark(ctx context.Context, content []byte, spec WatermarkSpec) ([]byte, error)
	Protect(ctx context.Context, content []byte, opts ProtectOptions) ([]byte, error)
}

// Converter changes a document's format.
type Converter interface {
	ToText(ctx context.Context, content []byte) (string, error)
	HTMLToPDF(ctx context.Context, html string) ([]byte, error)
	URLToPDF(ctx context.Context, rawURL string) ([]byte, error)
	Close() error
}

// ToolCatalog serves the static tool metadata.
type ToolCatalog interface {
	List(filter ToolFilter) []ToolDescriptor
	Get(id string) (*ToolDescriptor, error)
	Categories() []ToolCategory
	IsActive(id string) bool
	Search(query string, limit int) ([]ToolDescriptor, error)
}

// SessionStore keeps merge sessions between requests.
// Update runs fn under the store's lock for that session.
type SessionStore interface {
	Create(ctx context.Context, owner string) (*MergeSession, error)
	Get(ctx context.Context, id string) (*MergeSession, error)
	Update(ctx context.Context, id string, fn func(*MergeSession) error) (*MergeSession, error)
	Delete(ctx context.Context, id string) error
}

// ResultStore keeps transform outputs until they are downloaded or expire.
type ResultStore interface {
	Put(ctx context.Context, result *Result) error
	Get(ctx context.Context, id string) (*Result, error)
	Delete(ctx context.Context, id string) error
}

// SuggestionRepository persists feature suggestions.
type SuggestionRepository interface {
	Create(ctx context.Context, s *FeatureSuggestion) error
	List(ctx context.Context, limit int) ([]*FeatureSuggestion, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetMaxFileSize() int64
	GetMaxFiles() int
	GetLogLevel() string
	GetLogFormat() string
	GetAllowedOrigins() []string
	GetPublicBaseURL() string
	GetResultTTL() time.Duration
	GetSessionTTL() time.Duration
	GetResultBackend() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseBucket() string
	GetDatabasePath() string
	GetChromePath() string
	GetBrowserAutoDownload() bool
	GetConvertTimeout() time.Duration
	GetTextExtractor() string
	GetDisabledTools() []string
	GetAdminSecret() string
}
