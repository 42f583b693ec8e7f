package llm

import (
	"context"

	"newsroom/internal/domain"
)

// MockGenerator is a canned Generator for local mode and tests. When Func
// is set it computes the reply from the request; otherwise the rendered
// instruction is echoed back, which keeps runs deterministic.
type MockGenerator struct {
	Func func(req domain.GenerateRequest) (string, error)
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Generate(ctx context.Context, req domain.GenerateRequest) (string, error) {
	if m.Func != nil {
		return m.Func(req)
	}
	return RenderTemplate(req.Template, req.Vars), nil
}
