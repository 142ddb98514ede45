package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ChatCompletionProvider speaks the OpenAI chat completions wire format,
// which DeepSeek and GLM also accept.
type ChatCompletionProvider struct {
	name   string
	url    string
	apiKey string
	model  string
	client *resty.Client
}

func NewChatCompletionProvider(name, url, apiKey, model string, timeout time.Duration) *ChatCompletionProvider {
	return &ChatCompletionProvider{
		name:   name,
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: resty.New().SetTimeout(timeout),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string              `json:"model"`
	Messages       []chatMessage       `json:"messages"`
	Temperature    float64             `json:"temperature"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (p *ChatCompletionProvider) Name() string { return p.name }

func (p *ChatCompletionProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	req := chatRequest{
		Model:       p.model,
		Temperature: 0.4,
	}
	if prompt.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: prompt.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt.User})
	if prompt.JSONObject {
		req.ResponseFormat = &chatResponseFormat{Type: "json_object"}
	}

	var out chatResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		Post(p.url)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: %d", ErrProviderStatus, resp.StatusCode())
	}

	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	if out.Choices[0].FinishReason == "content_filter" {
		return "", ErrBlocked
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
