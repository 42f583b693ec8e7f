package domain

import "time"

// Kind tags a message so the recipient can filter its inbox. It is an open
// set: any string is legal. These are the kinds the default newsroom uses.
type Kind string

const (
	KindData     Kind = "data" // default when no kind is given
	KindResearch Kind = "research"
	KindDraft    Kind = "draft"
	KindFinal    Kind = "final"
)

// Message is one exchange between two agents. It is constructed by a
// Mailbox on deposit and never mutated afterwards. Routing is by Recipient
// name; Kind is only used for filtering on the receiving side.
type Message struct {
	ID        string
	Sender    string
	Recipient string
	Content   string
	Kind      Kind
	CreatedAt time.Time
}

// LogRecord is the audit view of a message: everything except the content.
type LogRecord struct {
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// Record returns the audit view of the message.
func (m Message) Record() LogRecord {
	return LogRecord{
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Kind:      m.Kind,
		Timestamp: m.CreatedAt,
	}
}
