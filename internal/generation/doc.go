// Package generation provides the boundary between the rewriter and external
// text-generation (LLM) services.
//
// Backends such as Gemini or a local Ollama server implement Backend. The
// Adapter wraps any Backend behind the Generator interface and guarantees a
// uniform contract: a call yields trimmed, non-empty text or an error wrapping
// ErrGenerationFailed. No backend error, panic, timeout or empty payload
// reaches callers in any other shape.
package generation
