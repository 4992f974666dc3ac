package models

import "time"

// Idea kinds as produced by the classifier.
const (
	KindIdea     = "IDEIA"
	KindQuestion = "QUESTAO"
)

// Idea represents a classified note captured from a chat message
type Idea struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"` // "IDEIA" or "QUESTAO"
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Owner     int64     `json:"owner"` // chat id of the capturing conversation
	CreatedAt time.Time `json:"created_at"`
}

// NewIdea creates a new idea with defaults
func NewIdea(kind, content, summary string, owner int64) *Idea {
	return &Idea{
		Kind:      kind,
		Content:   content,
		Summary:   summary,
		Owner:     owner,
		CreatedAt: time.Now(),
	}
}
