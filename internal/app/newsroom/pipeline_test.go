package newsroom_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"newsroom/internal/adapters/llm"
	mailboxmem "newsroom/internal/adapters/mailbox/memory"
	storagemem "newsroom/internal/adapters/storage/memory"
	"newsroom/internal/app/newsroom"
	"newsroom/internal/domain"
)

// stagedGenerator tells the three roles apart by the variable each one
// fills: topic for the Researcher, research for the Writer, draft for the
// Editor.
func stagedGenerator() *llm.MockGenerator {
	gen := llm.NewMockGenerator()
	gen.Func = func(req domain.GenerateRequest) (string, error) {
		if v, ok := req.Vars["topic"]; ok {
			return "R:" + v, nil
		}
		if v, ok := req.Vars["research"]; ok {
			return "W:" + v, nil
		}
		if v, ok := req.Vars["draft"]; ok {
			return "E:" + v, nil
		}
		return "", fmt.Errorf("unexpected request vars: %v", req.Vars)
	}
	return gen
}

func TestRunProducesEditedArticle(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()
	archive := storagemem.NewArchiveStore()

	pipe, err := newsroom.New(newsroom.DefaultRoster(), mb, stagedGenerator(), archive)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := pipe.Run(ctx, "Mechanical Watches")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "E:W:R:Mechanical Watches" {
		t.Fatalf("expected edited article, got %q", got)
	}

	history := mb.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 log records, got %d", len(history))
	}
	wantKinds := []domain.Kind{domain.KindResearch, domain.KindDraft, domain.KindFinal}
	for i, want := range wantKinds {
		if history[i].Kind != want {
			t.Fatalf("record %d: expected kind %q, got %q", i, want, history[i].Kind)
		}
	}

	// The article and its message log must have been archived.
	articles, err := archive.ListArticles(ctx, 0)
	if err != nil {
		t.Fatalf("ListArticles failed: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 archived article, got %d", len(articles))
	}
	if articles[0].Topic != "Mechanical Watches" || articles[0].Text != got {
		t.Fatalf("archived article does not match: %+v", articles[0])
	}
	if len(archive.MessageLog(articles[0].ID)) != 3 {
		t.Fatalf("expected archived message log with 3 records")
	}
}

func TestRunWithEmptyResearchStillFlows(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()

	gen := llm.NewMockGenerator()
	gen.Func = func(req domain.GenerateRequest) (string, error) {
		if _, ok := req.Vars["topic"]; ok {
			return "", nil // the Researcher found nothing
		}
		if v, ok := req.Vars["research"]; ok {
			return "W:" + v, nil
		}
		if v, ok := req.Vars["draft"]; ok {
			return "E:" + v, nil
		}
		return "", fmt.Errorf("unexpected request vars: %v", req.Vars)
	}

	pipe, err := newsroom.New(newsroom.DefaultRoster(), mb, gen, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// Filtering is by kind, not content: the empty research message still
	// reaches the Writer.
	got, err := pipe.Run(ctx, "Quantum Radio")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "E:W:" {
		t.Fatalf("expected %q, got %q", "E:W:", got)
	}
}

func TestRunFailsWhenNoMatchingMessageReachesWriter(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()
	gen := stagedGenerator()

	// The Researcher mislabels its output, so the Writer never matches.
	roster := newsroom.DefaultRoster()
	roster.Agents[0].Emits = "notes"

	writerCalls := 0
	editorCalls := 0
	inner := gen.Func
	gen.Func = func(req domain.GenerateRequest) (string, error) {
		if _, ok := req.Vars["research"]; ok {
			writerCalls++
		}
		if _, ok := req.Vars["draft"]; ok {
			editorCalls++
		}
		return inner(req)
	}

	pipe, err := newsroom.New(roster, mb, gen, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = pipe.Run(ctx, "Lost Topic")
	if !errors.Is(err, domain.ErrPipelineIncomplete) {
		t.Fatalf("expected ErrPipelineIncomplete, got %v", err)
	}

	if writerCalls != 0 || editorCalls != 0 {
		t.Fatalf("stalled phase must not generate: writer=%d editor=%d", writerCalls, editorCalls)
	}
}

func TestRunSkipsUnexpectedKindsInWriterInbox(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()

	// Noise deposited before the run: withdrawn in the same batch as the
	// research message, discarded without blocking the match.
	if _, err := mb.Deposit(ctx, "Intruder", "Writer", "noise", "unexpected"); err != nil {
		t.Fatalf("Deposit failed: %v", err)
	}

	pipe, err := newsroom.New(newsroom.DefaultRoster(), mb, stagedGenerator(), nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := pipe.Run(ctx, "Mechanical Watches")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "E:W:R:Mechanical Watches" {
		t.Fatalf("expected edited article, got %q", got)
	}

	if len(mb.History()) != 4 {
		t.Fatalf("expected 4 log records including the noise, got %d", len(mb.History()))
	}
}

func TestRunPropagatesGenerationFailure(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()

	gen := llm.NewMockGenerator()
	gen.Func = func(req domain.GenerateRequest) (string, error) {
		if _, ok := req.Vars["draft"]; ok {
			return "", fmt.Errorf("quota exceeded")
		}
		for _, v := range req.Vars {
			return "ok:" + v, nil
		}
		return "", nil
	}

	pipe, err := newsroom.New(newsroom.DefaultRoster(), mb, gen, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = pipe.Run(ctx, "Fragile Topic")
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if genErr.Agent != "Editor" {
		t.Fatalf("expected the Editor's phase to fail, got agent %q", genErr.Agent)
	}
}

type failingArchive struct{}

func (failingArchive) SaveArticle(ctx context.Context, a *domain.Article) error {
	return fmt.Errorf("disk full")
}

func (failingArchive) SaveMessageLog(ctx context.Context, runID string, records []domain.LogRecord) error {
	return fmt.Errorf("disk full")
}

func TestRunPersistenceFailureKeepsArticleText(t *testing.T) {
	ctx := context.Background()
	mb := mailboxmem.New()

	pipe, err := newsroom.New(newsroom.DefaultRoster(), mb, stagedGenerator(), failingArchive{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = pipe.Run(ctx, "Mechanical Watches")
	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if perr.Text != "E:W:R:Mechanical Watches" {
		t.Fatalf("error must carry the article text, got %q", perr.Text)
	}
}
