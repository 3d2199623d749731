package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pdf-toolkit/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// MemoryDatabase opens a private in-memory database instead of a file.
const MemoryDatabase = ":memory:"

// SQLiteSuggestionRepository stores feature suggestions in SQLite.
type SQLiteSuggestionRepository struct {
	db     *sql.DB
	logger domain.Logger
}

// NewSQLiteSuggestionRepository opens or creates the database at dbPath
// and creates the schema if it does not exist.
func NewSQLiteSuggestionRepository(dbPath string, logger domain.Logger) (*SQLiteSuggestionRepository, error) {
	dsn := MemoryDatabase
	if dbPath != MemoryDatabase {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = dbPath + "?_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if dbPath == MemoryDatabase {
		db.SetMaxOpenConns(1)
	}

	r := &SQLiteSuggestionRepository{db: db, logger: logger}
	if err := r.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return r, nil
}

func (r *SQLiteSuggestionRepository) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS suggestions (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			feature TEXT NOT NULL,
			owner TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_suggestions_created_at ON suggestions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Create inserts s.
func (r *SQLiteSuggestionRepository) Create(ctx context.Context, s *domain.FeatureSuggestion) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO suggestions (id, email, feature, owner, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Email, s.Feature, s.Owner, s.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting suggestion: %w", err)
	}
	return nil
}

// List returns the newest suggestions first.
func (r *SQLiteSuggestionRepository) List(ctx context.Context, limit int) ([]*domain.FeatureSuggestion, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, feature, COALESCE(owner, ''), created_at
		 FROM suggestions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying suggestions: %w", err)
	}
	defer rows.Close()

	var out []*domain.FeatureSuggestion
	for rows.Next() {
		var (
			s       domain.FeatureSuggestion
			created string
		)
		if err := rows.Scan(&s.ID, &s.Email, &s.Feature, &s.Owner, &created); err != nil {
			return nil, fmt.Errorf("scanning suggestion: %w", err)
		}
		s.CreatedAt, err = time.Parse(timeLayout, created)
		if err != nil {
			r.logger.Warn("Unparseable suggestion timestamp", "id", s.ID, "value", created)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (r *SQLiteSuggestionRepository) Close() error {
	return r.db.Close()
}
