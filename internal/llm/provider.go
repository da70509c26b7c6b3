package llm

import (
	"context"
	"errors"
)

// ErrStreamIncomplete is returned when a streamed completion ends without an
// explicit completion signal. The caller counts such an attempt against its
// retry budget.
var ErrStreamIncomplete = errors.New("stream ended without completion signal")

// Provider defines the interface for generative-language backends. Any
// provider implementing this request/response shape is substitutable; the
// core never depends on a particular backend identity.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete performs a single-body chat completion.
	Complete(ctx context.Context, req Request) (*Response, error)

	// CompleteStream performs a streamed chat completion and returns the
	// fragments reassembled into one document. Providers without
	// incremental delivery may return the single message body. A stream
	// that ends without a completion signal yields ErrStreamIncomplete.
	CompleteStream(ctx context.Context, req Request) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one chat completion call.
type Request struct {
	// System is the system instruction
	System string

	// Prompt is the user prompt
	Prompt string

	// Model overrides the configured model when non-empty
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling (the analysis pipeline always uses 0.3)
	Temperature float32
}

// Response contains the completion output.
type Response struct {
	// Content is the generated text
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "deepseek", "ollama", "anthropic", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, DeepSeek)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Connection pool bounds for the shared backend client. The pool is
	// the only resource shared across concurrent analysis requests.
	MaxKeepAlive   int
	MaxConnections int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "",
		Model:          "",
		Timeout:        30,
		MaxTokens:      500,
		MaxKeepAlive:   5,
		MaxConnections: 10,
	}
}
