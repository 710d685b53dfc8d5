package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed wraps every failure returned by the Adapter. Callers
	// only need to test for this error.
	ErrGenerationFailed = errors.New("text generation failed")

	// ErrEmptyResponse is returned when the service answered with no usable text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyPrompt is returned when an empty prompt is submitted
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
