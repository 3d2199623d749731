package supabase

import (
	"fmt"

	"pdf-toolkit/internal/domain"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

// Client wraps the Supabase client used for result storage.
type Client struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewClient creates a client. Call Initialize before use.
func NewClient(config domain.Config, logger domain.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Initialize establishes a connection to Supabase
func (c *Client) Initialize() error {
	supabaseURL := c.config.GetSupabaseURL()
	supabaseKey := c.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	c.client = client
	c.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// Storage returns the storage API client. It is nil before Initialize.
func (c *Client) Storage() *storage_go.Client {
	if c.client == nil {
		return nil
	}
	return c.client.Storage
}
