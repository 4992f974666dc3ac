package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cerebro-bot/cerebro/internal/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and ensures the schema exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("✅ Postgres store connected and ready")
	return store, nil
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	ideasTable := `
	CREATE TABLE IF NOT EXISTS ideas (
		id BIGSERIAL PRIMARY KEY,
		kind VARCHAR(20) NOT NULL,
		content TEXT NOT NULL,
		summary TEXT NOT NULL,
		owner BIGINT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ideas_owner ON ideas(owner);
	CREATE INDEX IF NOT EXISTS idx_ideas_created ON ideas(created_at DESC);
	`

	brainstormsTable := `
	CREATE TABLE IF NOT EXISTS brainstorms (
		id BIGSERIAL PRIMARY KEY,
		idea_id BIGINT NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_brainstorms_idea ON brainstorms(idea_id);
	`

	for _, table := range []string{ideasTable, brainstormsTable} {
		if _, err := s.pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) SaveIdea(ctx context.Context, kind, content, summary string, owner int64) (int64, error) {
	query := `
		INSERT INTO ideas (kind, content, summary, owner)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := s.pool.QueryRow(ctx, query, kind, content, summary, owner).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save idea: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListIdeas(ctx context.Context, owner int64, all bool) ([]*models.Idea, error) {
	query := `
		SELECT id, kind, content, summary, owner, created_at
		FROM ideas
		WHERE owner = $1
		ORDER BY created_at DESC
	`
	args := []any{owner}

	if all {
		query = `
			SELECT id, kind, content, summary, owner, created_at
			FROM ideas
			ORDER BY created_at DESC
		`
		args = nil
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea := &models.Idea{}
		err := rows.Scan(&idea.ID, &idea.Kind, &idea.Content, &idea.Summary, &idea.Owner, &idea.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

func (s *PostgresStore) GetIdea(ctx context.Context, id, owner int64, all bool) (*models.Idea, error) {
	query := `
		SELECT id, kind, content, summary, owner, created_at
		FROM ideas
		WHERE id = $1 AND owner = $2
	`
	args := []any{id, owner}

	if all {
		query = `
			SELECT id, kind, content, summary, owner, created_at
			FROM ideas
			WHERE id = $1
		`
		args = []any{id}
	}

	idea := &models.Idea{}
	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&idea.ID, &idea.Kind, &idea.Content, &idea.Summary, &idea.Owner, &idea.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// DeleteIdea removes an idea and all its brainstorms in one transaction.
func (s *PostgresStore) DeleteIdea(ctx context.Context, id, owner int64, all bool) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM brainstorms WHERE idea_id = $1`, id); err != nil {
		return false, fmt.Errorf("failed to delete brainstorms: %w", err)
	}

	query := `DELETE FROM ideas WHERE id = $1 AND owner = $2`
	args := []any{id, owner}
	if all {
		query = `DELETE FROM ideas WHERE id = $1`
		args = []any{id}
	}

	result, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete idea: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) SaveBrainstorm(ctx context.Context, ideaID int64, content string) (int64, error) {
	query := `
		INSERT INTO brainstorms (idea_id, content)
		VALUES ($1, $2)
		RETURNING id
	`

	var id int64
	err := s.pool.QueryRow(ctx, query, ideaID, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save brainstorm: %w", err)
	}
	return id, nil
}

// GetBrainstorms returns the brainstorms for an idea, most recent first.
func (s *PostgresStore) GetBrainstorms(ctx context.Context, ideaID int64) ([]*models.Brainstorm, error) {
	query := `
		SELECT id, idea_id, content, created_at
		FROM brainstorms
		WHERE idea_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.pool.Query(ctx, query, ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query brainstorms: %w", err)
	}
	defer rows.Close()

	var brainstorms []*models.Brainstorm
	for rows.Next() {
		b := &models.Brainstorm{}
		if err := rows.Scan(&b.ID, &b.IdeaID, &b.Content, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brainstorm: %w", err)
		}
		brainstorms = append(brainstorms, b)
	}
	return brainstorms, rows.Err()
}

func (s *PostgresStore) UpdateBrainstorm(ctx context.Context, id int64, content string) (bool, error) {
	result, err := s.pool.Exec(ctx, `UPDATE brainstorms SET content = $2 WHERE id = $1`, id, content)
	if err != nil {
		return false, fmt.Errorf("failed to update brainstorm: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Close closes the database connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
	log.Println("Database connection closed")
}
