package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/domain"
)

// Mailbox is the in-process implementation of domain.Mailbox. The pending
// buffer and the audit log are guarded by a single mutex so deposit and
// withdraw stay atomic even if agents ever run concurrently.
type Mailbox struct {
	mu      sync.Mutex
	pending []domain.Message
	log     []domain.Message

	now func() time.Time
}

func New() *Mailbox {
	return &Mailbox{
		now: time.Now,
	}
}

// Deposit constructs the message and appends it to the pending buffer and
// the audit log. It never fails.
func (m *Mailbox) Deposit(
	ctx context.Context,
	sender, recipient, content string,
	kind domain.Kind,
) (domain.Message, error) {
	if kind == "" {
		kind = domain.KindData
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		Kind:      kind,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = append(m.pending, msg)
	m.log = append(m.log, msg)

	return msg, nil
}

// Withdraw partitions the pending buffer by recipient: matching messages
// are returned in send order and removed, the rest stay queued. A second
// call with no intervening deposit returns nothing.
func (m *Mailbox) Withdraw(ctx context.Context, recipient string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Message
	keep := make([]domain.Message, 0, len(m.pending))
	for _, msg := range m.pending {
		if msg.Recipient == recipient {
			out = append(out, msg)
		} else {
			keep = append(keep, msg)
		}
	}
	m.pending = keep

	return out, nil
}

// History returns the audit view of every message ever deposited.
func (m *Mailbox) History() []domain.LogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]domain.LogRecord, 0, len(m.log))
	for _, msg := range m.log {
		records = append(records, msg.Record())
	}
	return records
}

// ExportLog writes the audit log to w as indented JSON. Content is left
// out of the records on purpose: the log is for audit, not replay.
func (m *Mailbox) ExportLog(w io.Writer) error {
	data, err := json.MarshalIndent(m.History(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mailbox log: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write mailbox log: %w", err)
	}
	return nil
}

// PendingCount reports how many messages are waiting across all recipients.
func (m *Mailbox) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
