package memory

import (
	"context"
	"errors"
	"sync"

	"newsroom/internal/domain"
)

type ArchiveStore struct {
	mu       sync.RWMutex
	articles []*domain.Article
	logs     map[string][]domain.LogRecord
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		logs: make(map[string][]domain.LogRecord),
	}
}

func (s *ArchiveStore) SaveArticle(ctx context.Context, a *domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.articles {
		if existing.ID == a.ID {
			return errors.New("article already exists")
		}
	}

	s.articles = append(s.articles, a)
	return nil
}

func (s *ArchiveStore) SaveMessageLog(ctx context.Context, runID string, records []domain.LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs[runID] = append([]domain.LogRecord(nil), records...)
	return nil
}

func (s *ArchiveStore) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrArticleNotFound
}

func (s *ArchiveStore) ListArticles(ctx context.Context, limit int) ([]*domain.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.articles
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return append([]*domain.Article(nil), out...), nil
}

// MessageLog returns the saved log for a run, mainly for tests.
func (s *ArchiveStore) MessageLog(runID string) []domain.LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logs[runID]
}
