package models

import "time"

// Brainstorm represents an LLM-generated expansion attached to an idea
type Brainstorm struct {
	ID        int64     `json:"id"`
	IdeaID    int64     `json:"idea_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
