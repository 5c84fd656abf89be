package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ZaguanLabs/bilingo"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Transport against an OpenAI-compatible
// chat-completions endpoint. It performs exactly one attempt per call;
// retries belong to bilingo.RetryingTransport.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string       // Bearer token
	Model       string       // Default model when a request names none
	Endpoint    string       // Full chat-completions URL (default: bilingo.DefaultEndpoint)
	Temperature float32      // Temperature for generation (default: 0.3)
	HTTPClient  *http.Client // Optional base client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = bilingo.DefaultEndpoint
	}
	target, err := url.Parse(endpoint)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", endpoint)
	}

	base := http.DefaultTransport
	timeout := time.Duration(0)
	if cfg.HTTPClient != nil {
		if cfg.HTTPClient.Transport != nil {
			base = cfg.HTTPClient.Transport
		}
		timeout = cfg.HTTPClient.Timeout
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = target.Scheme + "://" + target.Host
	config.HTTPClient = &http.Client{
		Transport: &fixedEndpoint{target: target, base: base},
		Timeout:   timeout,
	}

	model := cfg.Model
	if model == "" {
		model = bilingo.DefaultModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}, nil
}

// Complete sends one chat-completion request and returns the content of the
// first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", &bilingo.ProviderError{
			Message:    "chat completion failed",
			Cause:      err,
			StatusCode: statusCode(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &bilingo.ProviderError{Message: "no choices in response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// Model returns the default model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// fixedEndpoint sends every request to one URL. go-openai appends
// "/chat/completions" to its base URL; the configured endpoint is used as is.
type fixedEndpoint struct {
	target *url.URL
	base   http.RoundTripper
}

func (f *fixedEndpoint) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	u := *f.target
	r.URL = &u
	r.Host = u.Host
	r.Header.Set("User-Agent", bilingo.UserAgent())
	return f.base.RoundTrip(r)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// Verify OpenAIProvider implements Transport
var _ Transport = (*OpenAIProvider)(nil)
