package domain

import (
	"errors"
	"fmt"
)

// ErrPipelineIncomplete means a downstream phase found no matching message
// in its inbox, so no final article was produced. Fatal for the run.
var ErrPipelineIncomplete = errors.New("pipeline incomplete: no final article produced")

// ErrArticleNotFound is returned by ArticleReader implementations.
var ErrArticleNotFound = errors.New("article not found")

// GenerationError marks a failed external generation call. It aborts the
// phase it occurred in; the pipeline does not retry it.
type GenerationError struct {
	Agent string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("agent %s: generation failed: %v", e.Agent, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError means the finished article could not be saved. It carries
// the article text so the caller can still recover it from the error.
type PersistenceError struct {
	Topic string
	Text  string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting article for topic %q: %v", e.Topic, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
