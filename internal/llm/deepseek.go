package llm

// DeepSeek exposes an OpenAI-compatible chat completion API, so the provider
// reuses the OpenAI client pointed at the DeepSeek endpoint. The two are
// fully interchangeable from the pipeline's point of view.

const (
	deepseekBaseURL      = "https://api.deepseek.com"
	deepseekDefaultModel = "deepseek-chat"
)

// DeepSeekProvider implements the Provider interface for DeepSeek models.
type DeepSeekProvider struct {
	*OpenAIProvider
}

// NewDeepSeekProvider creates a new DeepSeek provider
func NewDeepSeekProvider(config Config) (*DeepSeekProvider, error) {
	if config.BaseURL == "" {
		config.BaseURL = deepseekBaseURL
	}
	if config.Model == "" {
		config.Model = deepseekDefaultModel
	}

	inner, err := NewOpenAIProvider(config)
	if err != nil {
		return nil, err
	}
	return &DeepSeekProvider{OpenAIProvider: inner}, nil
}

// Name returns the provider name
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}
