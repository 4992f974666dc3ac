package database

import (
	"context"
	"errors"

	"github.com/cerebro-bot/cerebro/internal/models"
)

// ErrNotFound is returned when an idea or brainstorm does not exist or does
// not belong to the requesting owner.
var ErrNotFound = errors.New("not found")

// Store is the persistence interface for ideas and brainstorms. Two
// interchangeable backends implement it: a hosted Postgres database and an
// embedded SQLite file. The all flag bypasses the owner filter for
// superusers.
type Store interface {
	SaveIdea(ctx context.Context, kind, content, summary string, owner int64) (int64, error)
	ListIdeas(ctx context.Context, owner int64, all bool) ([]*models.Idea, error)
	GetIdea(ctx context.Context, id, owner int64, all bool) (*models.Idea, error)
	DeleteIdea(ctx context.Context, id, owner int64, all bool) (bool, error)

	SaveBrainstorm(ctx context.Context, ideaID int64, content string) (int64, error)
	GetBrainstorms(ctx context.Context, ideaID int64) ([]*models.Brainstorm, error)
	UpdateBrainstorm(ctx context.Context, id int64, content string) (bool, error)

	Close()
}
