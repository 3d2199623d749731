package config

import (
	"errors"
	"fmt"
	"io"

	"pdf-toolkit/internal/catalog"
	"pdf-toolkit/internal/converter"
	"pdf-toolkit/internal/domain"
	"pdf-toolkit/internal/infra/supabase"
	"pdf-toolkit/internal/pdfengine"
	"pdf-toolkit/internal/repository"
	"pdf-toolkit/internal/service"
	"pdf-toolkit/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config domain.Config
	Logger domain.Logger

	Engine    *pdfengine.Engine
	Converter *converter.Converter
	Catalog   *catalog.Catalog

	SessionStore         *repository.MemorySessionStore
	ResultStore          domain.ResultStore
	SuggestionRepository *repository.SQLiteSuggestionRepository

	MergeService      *service.MergeService
	ToolService       *service.ToolService
	ResultService     *service.ResultService
	SuggestionService *service.SuggestionService

	closers []io.Closer
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	return NewContainerWithConfig(NewConfig())
}

// NewContainerWithConfig wires the application from cfg. On error,
// everything opened so far is closed.
func NewContainerWithConfig(cfg domain.Config) (_ *Container, err error) {
	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetLogFormat())
	c := &Container{Config: cfg, Logger: appLogger}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	c.Engine = pdfengine.New(appLogger)

	conv, err := converter.New(converter.Options{
		TextExtractor: cfg.GetTextExtractor(),
		ChromePath:    cfg.GetChromePath(),
		AutoDownload:  cfg.GetBrowserAutoDownload(),
		Timeout:       cfg.GetConvertTimeout(),
	}, appLogger)
	if err != nil {
		return nil, fmt.Errorf("converter: %w", err)
	}
	c.Converter = conv
	c.closers = append(c.closers, conv)

	cat, err := catalog.New(cfg.GetDisabledTools(), appLogger)
	if err != nil {
		return nil, fmt.Errorf("tool catalog: %w", err)
	}
	c.Catalog = cat
	c.closers = append(c.closers, cat)

	c.SessionStore = repository.NewMemorySessionStore(cfg.GetSessionTTL(), appLogger)
	c.closers = append(c.closers, c.SessionStore)

	if c.ResultStore, err = newResultStore(cfg, appLogger); err != nil {
		return nil, err
	}
	if closer, ok := c.ResultStore.(io.Closer); ok {
		c.closers = append(c.closers, closer)
	}

	dbPath := cfg.GetDatabasePath()
	if dbPath == "" {
		dbPath = repository.MemoryDatabase
	}
	suggestions, err := repository.NewSQLiteSuggestionRepository(dbPath, appLogger)
	if err != nil {
		return nil, fmt.Errorf("suggestion database: %w", err)
	}
	c.SuggestionRepository = suggestions
	c.closers = append(c.closers, suggestions)

	c.MergeService = service.NewMergeService(c.Engine, c.SessionStore, cfg.GetMaxFiles(), appLogger)
	c.ToolService = service.NewToolService(c.Engine, c.Converter, appLogger)
	c.ResultService = service.NewResultService(c.ResultStore, cfg.GetResultTTL(), cfg.GetPublicBaseURL(), appLogger)
	c.SuggestionService = service.NewSuggestionService(c.SuggestionRepository, appLogger)

	appLogger.Info("Container initialized",
		"result_backend", cfg.GetResultBackend(),
		"text_extractor", cfg.GetTextExtractor(),
		"disabled_tools", cfg.GetDisabledTools(),
	)
	return c, nil
}

func newResultStore(cfg domain.Config, log domain.Logger) (domain.ResultStore, error) {
	switch cfg.GetResultBackend() {
	case "", ResultBackendMemory:
		return repository.NewMemoryResultStore(cfg.GetResultTTL(), log), nil
	case ResultBackendSupabase:
		client := supabase.NewClient(cfg, log)
		if err := client.Initialize(); err != nil {
			return nil, fmt.Errorf("result storage: %w", err)
		}
		return repository.NewSupabaseResultStore(client.Storage(), cfg.GetSupabaseBucket(), log), nil
	}
	return nil, fmt.Errorf("unknown result backend %q", cfg.GetResultBackend())
}

// Close releases stores, the database and the browser, newest first.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
