package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"newsroom/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore archive store.
// Uses the project passed (NEWSROOM_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) articlesCol() *firestore.CollectionRef {
	return s.client.Collection("articles")
}

func (s *Store) articleDocRef(id string) *firestore.DocumentRef {
	return s.articlesCol().Doc(id)
}

func (s *Store) messagesCol(runID string) *firestore.CollectionRef {
	return s.client.Collection("runs").Doc(runID).Collection("messages")
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type articleDoc struct {
	Topic     string    `firestore:"topic"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

type logRecordDoc struct {
	Seq       int       `firestore:"seq"`
	Sender    string    `firestore:"sender"`
	Recipient string    `firestore:"recipient"`
	Kind      string    `firestore:"kind"`
	Timestamp time.Time `firestore:"timestamp"`
}

// ─────────────────────────────────────────
// ArchiveStore implementation
// ─────────────────────────────────────────

func (s *Store) SaveArticle(ctx context.Context, a *domain.Article) error {
	doc := articleDoc{
		Topic:     a.Topic,
		Text:      a.Text,
		CreatedAt: a.CreatedAt,
	}

	_, err := s.articleDocRef(a.ID).Create(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore SaveArticle: %w", err)
	}
	return nil
}

func (s *Store) SaveMessageLog(ctx context.Context, runID string, records []domain.LogRecord) error {
	for i, r := range records {
		doc := logRecordDoc{
			Seq:       i,
			Sender:    r.Sender,
			Recipient: r.Recipient,
			Kind:      string(r.Kind),
			Timestamp: r.Timestamp,
		}

		_, err := s.messagesCol(runID).Doc(fmt.Sprintf("%04d", i)).Set(ctx, doc)
		if err != nil {
			return fmt.Errorf("firestore SaveMessageLog: %w", err)
		}
	}
	return nil
}

// ─────────────────────────────────────────
// ArticleReader implementation
// ─────────────────────────────────────────

func (s *Store) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	snap, err := s.articleDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("firestore GetArticle: %w", err)
	}

	var doc articleDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetArticle decode: %w", err)
	}

	return &domain.Article{
		ID:        id,
		Topic:     doc.Topic,
		Text:      doc.Text,
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (s *Store) ListArticles(ctx context.Context, limit int) ([]*domain.Article, error) {
	q := s.articlesCol().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Article
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListArticles: %w", err)
		}

		var doc articleDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode articleDoc: %w", err)
		}

		out = append(out, &domain.Article{
			ID:        snap.Ref.ID,
			Topic:     doc.Topic,
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
