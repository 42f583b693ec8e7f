package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newsroom/internal/adapters/storage/file"
	"newsroom/internal/domain"
)

func TestSaveArticleWritesTimestampedFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := file.NewArchiveStore(dir)
	if err != nil {
		t.Fatalf("NewArchiveStore failed: %v", err)
	}

	created := time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
	a := &domain.Article{
		ID:        "run-1",
		Topic:     "Mechanical Watches",
		Text:      "The article body.",
		CreatedAt: created,
	}
	if err := store.SaveArticle(ctx, a); err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "article_20260826_103000.txt"))
	if err != nil {
		t.Fatalf("expected article file: %v", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "TOPIC: Mechanical Watches\n") {
		t.Fatalf("missing topic header:\n%s", content)
	}
	if !strings.HasSuffix(content, "The article body.") {
		t.Fatalf("missing article body:\n%s", content)
	}
}

func TestSaveMessageLogWritesJSON(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := file.NewArchiveStore(dir)
	if err != nil {
		t.Fatalf("NewArchiveStore failed: %v", err)
	}

	records := []domain.LogRecord{
		{Sender: "Researcher", Recipient: "Writer", Kind: domain.KindResearch, Timestamp: time.Now()},
	}
	if err := store.SaveMessageLog(ctx, "run-1", records); err != nil {
		t.Fatalf("SaveMessageLog failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "messages_run-1.json"))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), `"sender": "Researcher"`) {
		t.Fatalf("unexpected log content:\n%s", data)
	}
}
