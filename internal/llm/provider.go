package llm

import "context"

// Provider is the core abstraction for text generation.
// Consumers call Generate with a Request and receive the model's raw text.
type Provider interface {
	// Generate sends a prompt to the model and returns its completion.
	// The request's Schema field, when set and supported by the provider,
	// instructs the model to return JSON conforming to that schema. The
	// response Text is returned as-is either way; downstream parsing
	// decides what to make of it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single-turn completion request.
type Request struct {
	// Prompt is the full prompt text sent to the model.
	Prompt string

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64

	// MaxTokens is the maximum number of tokens in the response.
	// Zero means the provider default.
	MaxTokens int

	// Schema is an optional JSON Schema the response should conform to.
	// Providers with native structured output (OpenAI, Anthropic, Gemini)
	// use it; the Ollama generate route ignores it and relies on the
	// caller's tolerant parsing.
	Schema *Schema
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as the schema name for OpenAI).
	// Kebab-case, e.g. "qa-records".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Text is the raw completion text exactly as the model returned it.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
