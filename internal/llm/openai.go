package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements the Provider interface for OpenAI-compatible
// chat completion APIs.
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	// One bounded connection pool per process, shared by every pipeline
	// instance that borrows this client.
	maxKeepAlive := config.MaxKeepAlive
	if maxKeepAlive <= 0 {
		maxKeepAlive = 5
	}
	maxConns := config.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			MaxIdleConnsPerHost: maxKeepAlive,
			MaxConnsPerHost:     maxConns,
		},
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Complete performs a single-body chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	ctxWithTimeout, cancel := p.callContext(ctx)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, p.chatRequest(req))
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &Response{
		Content:    strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// CompleteStream performs a streamed chat completion. Fragments are
// reassembled into one document; the stream must carry an explicit finish
// reason before EOF, otherwise ErrStreamIncomplete is returned. Retries
// always re-issue a new stream, never resume a partial one, so partial
// content is discarded here.
func (p *OpenAIProvider) CompleteStream(ctx context.Context, req Request) (string, error) {
	ctxWithTimeout, cancel := p.callContext(ctx)
	defer cancel()

	stream, err := p.client.CreateChatCompletionStream(ctxWithTimeout, p.chatRequest(req))
	if err != nil {
		return "", fmt.Errorf("OpenAI stream error: %w", err)
	}
	defer stream.Close()

	var full strings.Builder
	complete := false
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("OpenAI stream recv: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		full.WriteString(chunk.Choices[0].Delta.Content)
		if chunk.Choices[0].FinishReason != "" {
			complete = true
		}
	}

	if !complete {
		return "", ErrStreamIncomplete
	}
	return full.String(), nil
}

func (p *OpenAIProvider) chatRequest(req Request) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 500
	}

	return openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}
}

func (p *OpenAIProvider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
