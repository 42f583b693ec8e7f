package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"newsroom/internal/domain"
)

const queuePrefix = "newsroom.inbox."

// Mailbox implements domain.Mailbox on top of a RabbitMQ broker, with one
// durable queue per recipient name. It is meant for runs whose agents live
// in separate processes; the audit log stays local to this side of the
// connection and only covers traffic that went through it.
type Mailbox struct {
	conn *amqp091.Connection
	log  *slog.Logger

	mu       sync.Mutex
	declared map[string]bool
	history  []domain.Message
}

// DialOptions controls the connection attempt.
type DialOptions struct {
	URL           string
	RetryAttempts int
	Delay         time.Duration
}

// Dial connects to the broker with exponential backoff. It respects context
// cancellation for graceful shutdown.
func Dial(ctx context.Context, opts DialOptions, logger *slog.Logger) (*Mailbox, error) {
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}

	var lastErr error
	for i := 1; i <= opts.RetryAttempts; i++ {
		conn, err := amqp091.Dial(opts.URL)
		if err == nil {
			if i > 1 {
				logger.Info("rabbit connected", slog.Int("attempt", i))
			}
			return &Mailbox{
				conn:     conn,
				log:      logger,
				declared: make(map[string]bool),
			}, nil
		}
		lastErr = err

		// exponential backoff with cap
		sleep := opts.Delay * time.Duration(math.Pow(2, float64(i-1)))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}

		logger.Warn("rabbit dial failed",
			slog.Int("attempt", i),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}

	return nil, fmt.Errorf("dialing rabbitmq after %d attempts: %w", opts.RetryAttempts, lastErr)
}

func queueFor(recipient string) string {
	return queuePrefix + recipient
}

func (m *Mailbox) ensureQueue(ch *amqp091.Channel, recipient string) error {
	m.mu.Lock()
	done := m.declared[recipient]
	m.mu.Unlock()
	if done {
		return nil
	}

	if _, err := ch.QueueDeclare(queueFor(recipient), true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue for %s: %w", recipient, err)
	}

	m.mu.Lock()
	m.declared[recipient] = true
	m.mu.Unlock()
	return nil
}

// Deposit publishes the message to the recipient's queue through the
// default exchange. Metadata rides in the AMQP properties: Kind as Type,
// sender as AppId.
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
		CreatedAt: time.Now(),
	}

	ch, err := m.conn.Channel()
	if err != nil {
		return domain.Message{}, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := m.ensureQueue(ch, recipient); err != nil {
		return domain.Message{}, err
	}

	err = ch.PublishWithContext(
		ctx, "", queueFor(recipient), false, false,
		amqp091.Publishing{
			ContentType:  "text/plain",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			AppId:        sender,
			Type:         string(kind),
			Timestamp:    msg.CreatedAt,
			Body:         []byte(content),
		},
	)
	if err != nil {
		return domain.Message{}, fmt.Errorf("publish to %s: %w", recipient, err)
	}

	m.mu.Lock()
	m.history = append(m.history, msg)
	m.mu.Unlock()

	m.log.Info("deposited", slog.String("sender", sender), slog.String("recipient", recipient), slog.String("kind", string(kind)))
	return msg, nil
}

// Withdraw drains the recipient's queue. Deliveries are auto-acked, which
// is exactly the at-most-once contract: once returned here a message is
// never redelivered.
func (m *Mailbox) Withdraw(ctx context.Context, recipient string) ([]domain.Message, error) {
	ch, err := m.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := m.ensureQueue(ch, recipient); err != nil {
		return nil, err
	}

	var out []domain.Message
	for {
		d, ok, err := ch.Get(queueFor(recipient), true)
		if err != nil {
			return out, fmt.Errorf("get from %s: %w", recipient, err)
		}
		if !ok {
			return out, nil
		}

		out = append(out, domain.Message{
			ID:        d.MessageId,
			Sender:    d.AppId,
			Recipient: recipient,
			Content:   string(d.Body),
			Kind:      domain.Kind(d.Type),
			CreatedAt: d.Timestamp,
		})
	}
}

// History returns the audit view of every message this side deposited.
func (m *Mailbox) History() []domain.LogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]domain.LogRecord, 0, len(m.history))
	for _, msg := range m.history {
		records = append(records, msg.Record())
	}
	return records
}

// ExportLog writes the local audit log to w as indented JSON.
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

func (m *Mailbox) Close() error {
	return m.conn.Close()
}
