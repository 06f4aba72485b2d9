package driven

import (
	"context"

	"github.com/quill-labs/paperdesk/internal/core/domain"
)

// LLMService provides raw language model operations. The agent pipeline
// composes these into the analysis and summarization capabilities.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI, Anthropic
//   - LM Studio (local inference server)
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a multi-turn conversation.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// AnalysisService is the external analysis/summarization capability the
// core hands text to. Both operations run under the caller's context
// deadline; expiry surfaces domain.ErrTimeout.
type AnalysisService interface {
	// Analyze answers userPrompt grounded on the behaviour described in
	// systemPrompt, returning the final text.
	Analyze(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Summarize produces a summary of text tailored to the given
	// expertise level.
	Summarize(ctx context.Context, text string, level domain.Level) (string, error)
}
