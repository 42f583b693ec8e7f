package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"newsroom/internal/adapters/storage/sqlite"
	"newsroom/internal/domain"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetArticle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a := &domain.Article{
		ID:        "run-1",
		Topic:     "Mechanical Watches",
		Text:      "A finished article.",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := store.SaveArticle(ctx, a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	got, err := store.GetArticle(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetArticle failed: %v", err)
	}
	if got.Topic != a.Topic || got.Text != a.Text {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}

	if _, err := store.GetArticle(ctx, "missing"); !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound, got %v", err)
	}
}

func TestSaveMessageLog(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	records := []domain.LogRecord{
		{Sender: "Researcher", Recipient: "Writer", Kind: domain.KindResearch, Timestamp: time.Now().UTC()},
		{Sender: "Writer", Recipient: "Editor", Kind: domain.KindDraft, Timestamp: time.Now().UTC()},
	}
	if err := store.SaveMessageLog(ctx, "run-1", records); err != nil {
		t.Fatalf("SaveMessageLog failed: %v", err)
	}

	// Saving the same run twice must fail on the (run_id, seq) key rather
	// than silently duplicating records.
	if err := store.SaveMessageLog(ctx, "run-1", records); err == nil {
		t.Fatalf("expected duplicate run log to fail")
	}
}

func TestListArticles(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		a := &domain.Article{
			ID:        id,
			Topic:     "Topic " + id,
			Text:      "text",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.SaveArticle(ctx, a); err != nil {
			t.Fatalf("SaveArticle failed: %v", err)
		}
	}

	got, err := store.ListArticles(ctx, 2)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "run-c" {
		t.Fatalf("expected newest first, got %s", got[0].ID)
	}
}
