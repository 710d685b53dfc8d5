package mocks

import (
	"context"
	"sync"
)

// Backend implements generation.Backend for testing.
type Backend struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
	NameFn     func() string
}

// Complete implements generation.Backend.
func (m *Backend) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, prompt)
	}
	return "", nil
}

// Name implements generation.Backend.
func (m *Backend) Name() string {
	if m.NameFn != nil {
		return m.NameFn()
	}
	return "mock"
}

// Generator implements generation.Generator for testing and captures every
// prompt it receives.
type Generator struct {
	// GenerateFn allows test cases to mock the Generate behavior
	GenerateFn func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

// Generate implements generation.Generator.
func (m *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, prompt)
	}
	return "", nil
}

// Prompts returns a copy of the prompts received so far, in call order.
func (m *Generator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// CallCount returns how many times Generate was called.
func (m *Generator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
