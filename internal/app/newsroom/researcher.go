package newsroom

import (
	"context"
	"fmt"

	"newsroom/internal/domain"
)

// Researcher opens a run. It has no upstream inbox: it turns the topic into
// research material and mails the result to the next agent.
type Researcher struct {
	Agent
	template string
	inputVar string
	emits    domain.Kind
	sendTo   string
}

func NewResearcher(spec AgentSpec, mailbox domain.Mailbox, gen domain.Generator) *Researcher {
	return &Researcher{
		Agent:    NewAgent(spec.Name, spec.Role, mailbox, gen, spec.Temperature),
		template: spec.Template,
		inputVar: spec.InputVar,
		emits:    domain.Kind(spec.Emits),
		sendTo:   spec.SendTo,
	}
}

// Produce invokes the generator with the topic and deposits the result for
// the downstream agent, tagged with this agent's output kind.
func (r *Researcher) Produce(ctx context.Context, topic string) (string, error) {
	r.LogActivity(ctx, "researching", "topic", topic)

	text, err := r.gen.Generate(ctx, domain.GenerateRequest{
		Template:    r.template,
		Vars:        map[string]string{r.inputVar: topic},
		Temperature: r.temperature,
	})
	if err != nil {
		return "", &domain.GenerationError{Agent: r.name, Err: err}
	}

	if _, err := r.Send(ctx, r.sendTo, text, r.emits); err != nil {
		return "", fmt.Errorf("agent %s: send: %w", r.name, err)
	}

	return text, nil
}
