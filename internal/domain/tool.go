package domain

// ToolDescriptor is static metadata about one tool of the suite.
type ToolDescriptor struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	Description      string `json:"description" yaml:"description"`
	SmallDescription string `json:"small_description" yaml:"small_description"`
	Action           string `json:"action" yaml:"action"`
	Route            string `json:"route" yaml:"route"`
	Active           bool   `json:"active" yaml:"active"`
	Category         string `json:"category" yaml:"category"`
}

// ToolCategory groups tools for listing.
type ToolCategory struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tools       []string `json:"tools" yaml:"tools"`
}

// DefaultSearchLimit caps tool search hits when no limit is given.
const DefaultSearchLimit = 10

// ToolFilter narrows ToolCatalog.List. Zero values match everything.
type ToolFilter struct {
	Category   string
	ActiveOnly bool
}

// Matches reports whether t passes the filter.
func (f ToolFilter) Matches(t ToolDescriptor) bool {
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return !f.ActiveOnly || t.Active
}

// Tool IDs with a server-side implementation.
const (
	ToolMerge     = "merge"
	ToolSplit     = "split"
	ToolCompress  = "compress"
	ToolWatermark = "watermark"
	ToolProtect   = "protect"
	ToolConvert   = "convert"
)
