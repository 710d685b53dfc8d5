// Package gemini implements generation.Backend on top of Google's Gemini API
// using the google.golang.org/genai client.
package gemini
