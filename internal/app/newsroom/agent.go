package newsroom

import (
	"context"

	"newsroom/internal/domain"
	"newsroom/internal/observability"
)

// Agent holds everything the newsroom roles share: an addressing name (the
// mailbox routing key), a descriptive role, the run's shared mailbox and a
// handle to the generation service. Agents never hold references to each
// other; every hand-off goes through the mailbox.
type Agent struct {
	name        string
	role        string
	mailbox     domain.Mailbox
	gen         domain.Generator
	temperature float32
}

func NewAgent(name, role string, mailbox domain.Mailbox, gen domain.Generator, temperature float32) Agent {
	return Agent{
		name:        name,
		role:        role,
		mailbox:     mailbox,
		gen:         gen,
		temperature: temperature,
	}
}

func (a *Agent) Name() string { return a.name }
func (a *Agent) Role() string { return a.role }

// Send deposits a message in the shared mailbox on behalf of this agent.
func (a *Agent) Send(ctx context.Context, recipient, content string, kind domain.Kind) (domain.Message, error) {
	return a.mailbox.Deposit(ctx, a.name, recipient, content, kind)
}

// Receive drains this agent's pending messages from the mailbox.
func (a *Agent) Receive(ctx context.Context) ([]domain.Message, error) {
	return a.mailbox.Withdraw(ctx, a.name)
}

// LogActivity emits a diagnostic line tagged with the agent's name. It is
// not part of the coordination contract.
func (a *Agent) LogActivity(ctx context.Context, msg string, args ...any) {
	observability.LoggerFromContext(ctx).With("agent", a.name).Info(msg, args...)
}
