package generator

import "context"

// LLMClient abstracts the model provider so the pipeline can be tested
// without network calls.
type LLMClient interface {
	// Complete runs one chat completion with a system instruction and a
	// single user turn, returning the raw model text.
	Complete(ctx context.Context, system, user string) (string, error)
	// GenerateImage synthesizes one square image for the prompt and
	// returns a fetchable URL.
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// LLMSettings carries provider configuration to concrete implementations.
type LLMSettings struct {
	Provider   string
	Model      string
	ImageModel string
	APIKey     string
	BaseURL    string
}
