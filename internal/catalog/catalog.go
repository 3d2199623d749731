// Package catalog serves the static tool metadata of the suite and a
// full-text search over it.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"pdf-toolkit/internal/domain"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.yaml.in/yaml/v3"
)

//go:embed tools.yaml
var toolsYAML []byte

// Field boosts for search ranking.
var fieldBoosts = map[string]float64{
	"title":             3,
	"category":          2,
	"small_description": 2,
	"description":       1,
}

type catalogFile struct {
	Categories []domain.ToolCategory   `yaml:"categories"`
	Tools      []domain.ToolDescriptor `yaml:"tools"`
}

// Catalog implements domain.ToolCatalog over the embedded tools.yaml.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	tools      []domain.ToolDescriptor
	byID       map[string]int
	categories []domain.ToolCategory
	index      bleve.Index
}

// New loads the embedded catalog and switches off every tool in disabled.
func New(disabled []string, logger domain.Logger) (*Catalog, error) {
	return Load(toolsYAML, disabled, logger)
}

// Load builds a catalog from raw YAML.
func Load(raw []byte, disabled []string, logger domain.Logger) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing tool catalog: %w", err)
	}

	c := &Catalog{
		tools:      file.Tools,
		byID:       make(map[string]int, len(file.Tools)),
		categories: file.Categories,
	}
	for i, t := range c.tools {
		if t.ID == "" {
			return nil, fmt.Errorf("tool %d has no id", i)
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate tool id %q", t.ID)
		}
		c.byID[t.ID] = i
	}

	for _, id := range disabled {
		id = strings.TrimSpace(id)
		if i, ok := c.byID[id]; ok {
			c.tools[i].Active = false
			logger.Info("Tool disabled by configuration", "tool", id)
		} else if id != "" {
			logger.Warn("Unknown tool in disabled list", "tool", id)
		}
	}

	if err := c.buildIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) buildIndex() error {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = en.AnalyzerName

	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return fmt.Errorf("creating search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, t := range c.tools {
		doc := map[string]interface{}{
			"title":             t.Title,
			"description":       t.Description,
			"small_description": t.SmallDescription,
			"category":          t.Category,
		}
		if err := batch.Index(t.ID, doc); err != nil {
			return fmt.Errorf("indexing tool %q: %w", t.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return fmt.Errorf("indexing tools: %w", err)
	}

	c.index = idx
	return nil
}

// List returns tools in catalog order.
func (c *Catalog) List(filter domain.ToolFilter) []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(c.tools))
	for _, t := range c.tools {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Get returns a copy of one descriptor.
func (c *Catalog) Get(id string) (*domain.ToolDescriptor, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrToolNotFound, id)
	}
	t := c.tools[i]
	return &t, nil
}

// Categories returns the category list.
func (c *Catalog) Categories() []domain.ToolCategory {
	out := make([]domain.ToolCategory, len(c.categories))
	for i, cat := range c.categories {
		cat.Tools = slices.Clone(cat.Tools)
		out[i] = cat
	}
	return out
}

// IsActive reports whether id exists and is switched on.
func (c *Catalog) IsActive(id string) bool {
	i, ok := c.byID[id]
	return ok && c.tools[i].Active
}

// Search ranks tools against a free-text query. An empty query returns
// the first limit tools in catalog order. Ties are broken by ID.
func (c *Catalog) Search(q string, limit int) ([]domain.ToolDescriptor, error) {
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	q = strings.TrimSpace(q)
	if q == "" {
		all := c.List(domain.ToolFilter{})
		if len(all) > limit {
			all = all[:limit]
		}
		return all, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	req.SortBy([]string{"-_score", "_id"})

	res, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("searching tools: %w", err)
	}

	out := make([]domain.ToolDescriptor, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if i, ok := c.byID[hit.ID]; ok {
			out = append(out, c.tools[i])
		}
	}
	return out, nil
}

// buildQuery matches the analyzed query on every field and also treats
// each word as a title or description prefix, so partial input such as
// "water" finds the watermark tool.
func buildQuery(q string) query.Query {
	var clauses []query.Query
	for field, boost := range fieldBoosts {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(field)
		mq.SetBoost(boost)
		clauses = append(clauses, mq)
	}
	for _, word := range strings.Fields(strings.ToLower(q)) {
		for _, field := range []string{"title", "description"} {
			pq := bleve.NewPrefixQuery(word)
			pq.SetField(field)
			clauses = append(clauses, pq)
		}
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// Close releases the search index.
func (c *Catalog) Close() error {
	return c.index.Close()
}
