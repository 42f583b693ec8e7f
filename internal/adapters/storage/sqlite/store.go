package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"newsroom/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	id         TEXT PRIMARY KEY,
	topic      TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS message_log (
	run_id    TEXT NOT NULL,
	seq       INTEGER NOT NULL,
	sender    TEXT NOT NULL,
	recipient TEXT NOT NULL,
	kind      TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// Store is a local durable archive backed by SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) SaveArticle(ctx context.Context, a *domain.Article) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, topic, text, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.Topic, a.Text, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite SaveArticle: %w", err)
	}
	return nil
}

func (s *Store) SaveMessageLog(ctx context.Context, runID string, records []domain.LogRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite SaveMessageLog begin: %w", err)
	}
	defer tx.Rollback()

	for i, r := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO message_log (run_id, seq, sender, recipient, kind, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, r.Sender, r.Recipient, string(r.Kind), r.Timestamp,
		); err != nil {
			return fmt.Errorf("sqlite SaveMessageLog insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite SaveMessageLog commit: %w", err)
	}
	return nil
}

func (s *Store) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, topic, text, created_at FROM articles WHERE id = ?`, id)

	var a domain.Article
	if err := row.Scan(&a.ID, &a.Topic, &a.Text, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("sqlite GetArticle: %w", err)
	}

	return &a, nil
}

func (s *Store) ListArticles(ctx context.Context, limit int) ([]*domain.Article, error) {
	query := `SELECT id, topic, text, created_at FROM articles ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListArticles: %w", err)
	}
	defer rows.Close()

	var out []*domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Topic, &a.Text, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite ListArticles scan: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListArticles rows: %w", err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
