// Package prompt holds the text templates used to ask the language model for
// a new title, description and summary.
//
// A Set is loaded from YAML with one template per stage. The defaults are
// embedded in the binary; an operator can point rewrite.prompts_path at a
// file with the same keys to replace them.
package prompt
