package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cerebro-bot/cerebro/internal/models"
)

// SQLiteStore is the embedded file-database backend. The pure-Go driver
// keeps the bot deployable without a C toolchain.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and ensures the schema
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}

	// The driver is not safe for concurrent writers on one file.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("✅ SQLite store ready at %s", path)
	return store, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS ideas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		content TEXT NOT NULL,
		summary TEXT NOT NULL,
		owner INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ideas_owner ON ideas(owner);

	CREATE TABLE IF NOT EXISTS brainstorms (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		idea_id INTEGER NOT NULL REFERENCES ideas(id),
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_brainstorms_idea ON brainstorms(idea_id);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SaveIdea(ctx context.Context, kind, content, summary string, owner int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO ideas (kind, content, summary, owner, created_at) VALUES (?, ?, ?, ?, ?)`,
		kind, content, summary, owner, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save idea: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read idea id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListIdeas(ctx context.Context, owner int64, all bool) ([]*models.Idea, error) {
	query := `
		SELECT id, kind, content, summary, owner, created_at
		FROM ideas
		WHERE owner = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{owner}

	if all {
		query = `
			SELECT id, kind, content, summary, owner, created_at
			FROM ideas
			ORDER BY created_at DESC, id DESC
		`
		args = nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *SQLiteStore) GetIdea(ctx context.Context, id, owner int64, all bool) (*models.Idea, error) {
	query := `
		SELECT id, kind, content, summary, owner, created_at
		FROM ideas
		WHERE id = ? AND owner = ?
	`
	args := []any{id, owner}

	if all {
		query = `
			SELECT id, kind, content, summary, owner, created_at
			FROM ideas
			WHERE id = ?
		`
		args = []any{id}
	}

	idea := &models.Idea{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&idea.ID, &idea.Kind, &idea.Content, &idea.Summary, &idea.Owner, &idea.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// DeleteIdea removes an idea and all its brainstorms in one transaction.
func (s *SQLiteStore) DeleteIdea(ctx context.Context, id, owner int64, all bool) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM brainstorms WHERE idea_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete brainstorms: %w", err)
	}

	query := `DELETE FROM ideas WHERE id = ? AND owner = ?`
	args := []any{id, owner}
	if all {
		query = `DELETE FROM ideas WHERE id = ?`
		args = []any{id}
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to delete idea: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) SaveBrainstorm(ctx context.Context, ideaID int64, content string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO brainstorms (idea_id, content, created_at) VALUES (?, ?, ?)`,
		ideaID, content, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to save brainstorm: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read brainstorm id: %w", err)
	}
	return id, nil
}

// GetBrainstorms returns the brainstorms for an idea, most recent first.
func (s *SQLiteStore) GetBrainstorms(ctx context.Context, ideaID int64) ([]*models.Brainstorm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, idea_id, content, created_at
		FROM brainstorms
		WHERE idea_id = ?
		ORDER BY created_at DESC, id DESC
	`, ideaID)
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

func (s *SQLiteStore) UpdateBrainstorm(ctx context.Context, id int64, content string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE brainstorms SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return false, fmt.Errorf("failed to update brainstorm: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

func (s *SQLiteStore) Close() {
	s.db.Close()
	log.Println("Database connection closed")
}
