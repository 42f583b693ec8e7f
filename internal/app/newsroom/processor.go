package newsroom

import (
	"context"
	"fmt"

	"newsroom/internal/domain"
	"newsroom/internal/observability"
)

// Processor is the shared Writer/Editor shape: drain the inbox, act on the
// first message of the expected kind, mail the result onward. Which agent
// it actually is — name, template, kinds, forwarding target — is data.
type Processor struct {
	Agent
	template string
	inputVar string
	consumes domain.Kind
	emits    domain.Kind
	sendTo   string
}

func NewProcessor(spec AgentSpec, mailbox domain.Mailbox, gen domain.Generator) *Processor {
	return &Processor{
		Agent:    NewAgent(spec.Name, spec.Role, mailbox, gen, spec.Temperature),
		template: spec.Template,
		inputVar: spec.InputVar,
		consumes: domain.Kind(spec.Consumes),
		emits:    domain.Kind(spec.Emits),
		sendTo:   spec.SendTo,
	}
}

// ProcessInbox withdraws this agent's messages and scans them in send order
// for the first one of the expected kind. Matching is by kind only — an
// empty content still counts. Messages of other kinds are discarded.
// Returns ok=false when nothing matched; an empty inbox is not an error.
func (p *Processor) ProcessInbox(ctx context.Context) (string, bool, error) {
	log := observability.LoggerFromContext(ctx).With("agent", p.name)

	inbox, err := p.Receive(ctx)
	if err != nil {
		return "", false, fmt.Errorf("agent %s: receive: %w", p.name, err)
	}

	var input *domain.Message
	for i := range inbox {
		if inbox[i].Kind == p.consumes {
			input = &inbox[i]
			break
		}
		log.Warn("discarding message of unexpected kind",
			"kind", inbox[i].Kind,
			"sender", inbox[i].Sender)
	}

	if input == nil {
		log.Info("no matching message in inbox", "want_kind", p.consumes, "inbox_size", len(inbox))
		return "", false, nil
	}

	p.LogActivity(ctx, "processing message", "from", input.Sender, "kind", input.Kind)

	text, err := p.gen.Generate(ctx, domain.GenerateRequest{
		Template:    p.template,
		Vars:        map[string]string{p.inputVar: input.Content},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", false, &domain.GenerationError{Agent: p.name, Err: err}
	}

	if _, err := p.Send(ctx, p.sendTo, text, p.emits); err != nil {
		return "", false, fmt.Errorf("agent %s: send: %w", p.name, err)
	}

	return text, true, nil
}
