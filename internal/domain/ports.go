package domain

import (
	"context"
	"io"
	"time"
)

// GenerateRequest carries one call to the external text-generation service.
// Template is an instruction template with {name} placeholders that the
// generator fills from Vars before invoking the model.
type GenerateRequest struct {
	Template    string
	Vars        map[string]string
	Temperature float32
}

// Generator defines how agents reach the text-generation service.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Mailbox is the shared coordination primitive between agents. One instance
// exists per pipeline run and is shared by reference; agents never call
// each other directly.
type Mailbox interface {
	// Deposit constructs a Message with the current timestamp and appends
	// it to both the pending buffer and the audit log. An empty kind
	// defaults to KindData. The in-memory implementation never fails;
	// broker-backed ones surface transport errors.
	Deposit(ctx context.Context, sender, recipient, content string, kind Kind) (Message, error)

	// Withdraw removes and returns every pending message addressed to
	// recipient, in original send order. Each message is returned to
	// exactly one Withdraw call, ever; messages for other recipients are
	// left untouched.
	Withdraw(ctx context.Context, recipient string) ([]Message, error)

	// History returns a snapshot of the audit log. The log is append-only:
	// it keeps a record for every message ever deposited, including the
	// ones already withdrawn.
	History() []LogRecord

	// ExportLog serializes the audit log to w. Exporting twice with no
	// intervening deposit produces identical output.
	ExportLog(w io.Writer) error
}

// Article is the finished artifact of a pipeline run.
type Article struct {
	ID        string
	Topic     string
	Text      string
	CreatedAt time.Time
}

// ArchiveStore persists finished articles and run message logs.
type ArchiveStore interface {
	SaveArticle(ctx context.Context, a *Article) error
	SaveMessageLog(ctx context.Context, runID string, records []LogRecord) error
}

// ArticleReader is an optional capability of archive stores that can read
// back what they saved. The file backend does not implement it.
type ArticleReader interface {
	GetArticle(ctx context.Context, id string) (*Article, error)
	ListArticles(ctx context.Context, limit int) ([]*Article, error)
}
