// Package mocks provides centralized mock implementations for testing.
//
// Each mock exposes one function field per interface method so a test can
// script exactly the behavior it needs, and records its calls behind a mutex
// because the rewrite core calls collaborators from several workers at once.
//
// Usage:
//
//	gen := &mocks.Generator{
//	    GenerateFn: func(ctx context.Context, prompt string) (string, error) {
//	        return "A bright loft", nil
//	    },
//	}
//
//	// Use the mock in your test, then inspect gen.Prompts().
package mocks
