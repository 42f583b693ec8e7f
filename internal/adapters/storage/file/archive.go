package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"newsroom/internal/domain"
)

// ArchiveStore writes finished articles and run message logs into a local
// directory: one timestamped text file per article, one JSON file per run
// log. It is write-once and does not implement domain.ArticleReader.
type ArchiveStore struct {
	dir string
}

func NewArchiveStore(dir string) (*ArchiveStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	return &ArchiveStore{dir: dir}, nil
}

func (s *ArchiveStore) SaveArticle(ctx context.Context, a *domain.Article) error {
	name := fmt.Sprintf("article_%s.txt", a.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	header := fmt.Sprintf("TOPIC: %s\nDATE: %s\n%s\n\n",
		a.Topic,
		a.CreatedAt.Format(time.DateTime),
		"============================================================")

	if err := os.WriteFile(path, []byte(header+a.Text), 0o644); err != nil {
		return fmt.Errorf("write article %s: %w", path, err)
	}
	return nil
}

func (s *ArchiveStore) SaveMessageLog(ctx context.Context, runID string, records []domain.LogRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal message log: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("messages_%s.json", runID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write message log %s: %w", path, err)
	}
	return nil
}
