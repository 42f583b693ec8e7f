package newsroom

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsroom/internal/domain"
	"newsroom/internal/observability"
)

// runState makes the phase ordering explicit instead of relying on call
// order: the driver only moves forward when the previous phase's agent
// call has returned.
type runState int

const (
	stateAwaitingResearch runState = iota
	stateAwaitingDraft
	stateAwaitingFinal
	stateDone
	stateFailed
)

// Pipeline owns the run's shared mailbox and the agents, and drives the
// sequential phase flow. It never passes one agent's output to the next
// directly: each phase only deposits into and withdraws from the mailbox,
// so agents can be replaced or inserted without touching the driver.
type Pipeline struct {
	mailbox  domain.Mailbox
	producer *Researcher
	stages   []*Processor
	archive  domain.ArchiveStore

	now func() time.Time
}

// New builds a pipeline from a roster. The first roster entry becomes the
// producer, the rest become processing stages in order. archive may be nil;
// the run then returns the article without persisting it.
func New(roster Roster, mailbox domain.Mailbox, gen domain.Generator, archive domain.ArchiveStore) (*Pipeline, error) {
	if err := roster.Validate(); err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	stages := make([]*Processor, 0, len(roster.Agents)-1)
	for _, spec := range roster.Agents[1:] {
		stages = append(stages, NewProcessor(spec, mailbox, gen))
	}

	return &Pipeline{
		mailbox:  mailbox,
		producer: NewResearcher(roster.Agents[0], mailbox, gen),
		stages:   stages,
		archive:  archive,
		now:      time.Now,
	}, nil
}

// Mailbox exposes the run's mailbox, mainly for log export.
func (p *Pipeline) Mailbox() domain.Mailbox {
	return p.mailbox
}

// Run produces a finished article for the topic. Phases are strictly
// sequential; a failed phase fails the run. On success the article and the
// mailbox log are persisted before the text is returned.
func (p *Pipeline) Run(ctx context.Context, topic string) (string, error) {
	runID := observability.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = observability.WithRunID(ctx, runID)
	}

	log := observability.LoggerFromContext(ctx).With("topic", topic)
	log.Info("pipeline started", "agents_count", len(p.stages)+1)

	var (
		finalText string
		stage     int
		runErr    error
	)

	state := stateAwaitingResearch
	for state != stateDone && state != stateFailed {
		switch state {
		case stateAwaitingResearch:
			start := p.now()
			if _, err := p.producer.Produce(ctx, topic); err != nil {
				log.Error("research phase failed", "agent", p.producer.Name(), "error", err)
				runErr = err
				state = stateFailed
				continue
			}
			log.Info("phase complete", "agent", p.producer.Name(), "elapsed_ms", time.Since(start).Milliseconds())

			if len(p.stages) == 1 {
				state = stateAwaitingFinal
			} else {
				state = stateAwaitingDraft
			}

		case stateAwaitingDraft:
			// Every stage before the last hands its output downstream
			// through the mailbox; only the last stage's text matters here.
			_, ok, err := p.runStage(ctx, log, p.stages[stage])
			if err != nil || !ok {
				runErr = stageError(p.stages[stage], ok, err)
				state = stateFailed
				continue
			}

			stage++
			if stage == len(p.stages)-1 {
				state = stateAwaitingFinal
			}

		case stateAwaitingFinal:
			stage = len(p.stages) - 1
			text, ok, err := p.runStage(ctx, log, p.stages[stage])
			if err != nil || !ok {
				runErr = stageError(p.stages[stage], ok, err)
				state = stateFailed
				continue
			}

			finalText = text
			state = stateDone
		}
	}

	if state == stateFailed {
		return "", runErr
	}

	if p.archive != nil {
		article := &domain.Article{
			ID:        runID,
			Topic:     topic,
			Text:      finalText,
			CreatedAt: p.now(),
		}
		if err := p.archive.SaveArticle(ctx, article); err != nil {
			log.Error("failed to save article", "error", err)
			return "", &domain.PersistenceError{Topic: topic, Text: finalText, Err: err}
		}
		if err := p.archive.SaveMessageLog(ctx, runID, p.mailbox.History()); err != nil {
			log.Error("failed to save message log", "error", err)
			return "", &domain.PersistenceError{Topic: topic, Text: finalText, Err: err}
		}
	}

	log.Info("pipeline finished", "article_chars", len(finalText))
	return finalText, nil
}

// stageError maps a stage outcome to the run error: a hard failure wins,
// a stalled stage (no matching message) means the pipeline is incomplete.
func stageError(stage *Processor, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("phase %s: %w", stage.Name(), domain.ErrPipelineIncomplete)
	}
	return nil
}

func (p *Pipeline) runStage(ctx context.Context, log *slog.Logger, stage *Processor) (string, bool, error) {
	start := p.now()
	text, ok, err := stage.ProcessInbox(ctx)
	if err != nil {
		log.Error("phase failed", "agent", stage.Name(), "error", err)
		return "", false, err
	}

	log.Info("phase complete",
		"agent", stage.Name(),
		"matched", ok,
		"elapsed_ms", time.Since(start).Milliseconds())
	return text, ok, nil
}
