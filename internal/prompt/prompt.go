package prompt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed default_prompts.yaml
var defaultPrompts []byte

// Kind names one of the three stage prompts.
type Kind string

// Prompt kinds, in the order the stages run.
const (
	KindTitle       Kind = "title"
	KindDescription Kind = "description"
	KindSummary     Kind = "summary"
)

var (
	// ErrMissingTemplate is returned when a prompt file lacks one of the stage templates.
	ErrMissingTemplate = errors.New("missing prompt template")

	// ErrInvalidTemplate is returned when a template cannot be parsed or executed.
	ErrInvalidTemplate = errors.New("invalid prompt template")
)

// Data is the value each template is executed against.
// The title prompt sees the original title; the description prompt sees the
// new title; the summary prompt sees the new title and description.
type Data struct {
	Title       string
	Description string
	MaxLength   int
}

// file is the YAML layout of a prompt file.
type file struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Summary     string `yaml:"summary"`
}

// Set is a parsed, immutable collection of stage templates. It is safe for
// concurrent use.
type Set struct {
	templates map[Kind]*template.Template
}

// Default returns the embedded prompt set.
func Default() (*Set, error) {
	return Parse(defaultPrompts)
}

// Load reads a prompt set from path. An empty path returns Default().
func Load(path string) (*Set, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file: %w", err)
	}

	return Parse(data)
}

// Parse builds a Set from YAML content.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}

	sources := map[Kind]string{
		KindTitle:       f.Title,
		KindDescription: f.Description,
		KindSummary:     f.Summary,
	}

	set := &Set{templates: make(map[Kind]*template.Template, len(sources))}
	for kind, src := range sources {
		if strings.TrimSpace(src) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingTemplate, kind)
		}

		tmpl, err := template.New(string(kind)).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, kind, err)
		}
		set.templates[kind] = tmpl
	}

	return set, nil
}

// Render executes the template for kind with data.
func (s *Set) Render(kind Kind, data Data) (string, error) {
	tmpl, ok := s.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingTemplate, kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, kind, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
