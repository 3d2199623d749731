package domain

import "time"

// MergeSession holds one user's ordering list between requests.
type MergeSession struct {
	ID        string
	Owner     string
	Files     *OrderingList
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that can be changed without affecting s.
func (s *MergeSession) Clone() *MergeSession {
	c := *s
	c.Files = s.Files.Clone()
	return &c
}

// SessionView is the JSON shape of a MergeSession.
type SessionView struct {
	ID         string          `json:"id"`
	Owner      string          `json:"owner,omitempty"`
	Files      []*SelectedFile `json:"files"`
	TotalPages int             `json:"total_pages"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// View snapshots the session for serialization.
func (s *MergeSession) View() *SessionView {
	files := s.Files.Files()
	total := 0
	for _, f := range files {
		total += f.PageCount
	}
	if files == nil {
		files = make([]*SelectedFile, 0)
	}
	return &SessionView{
		ID:         s.ID,
		Owner:      s.Owner,
		Files:      files,
		TotalPages: total,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// FeatureSuggestion is a user request for a new tool.
type FeatureSuggestion struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Feature   string    `json:"feature"`
	Owner     string    `json:"owner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
