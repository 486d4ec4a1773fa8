package openaiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"

	"github.com/sashabaranov/go-openai"
)

var _ output.LLMPort = (*Adapter)(nil)

const DefaultModel = openai.GPT4o

type Config struct {
	Model   string
	BaseURL string
	// Debug logs every request and response through Logger.
	Debug  bool
	Logger output.LoggerPort
}

func DefaultConfig() Config {
	return Config{Model: DefaultModel}
}

// Adapter talks to an OpenAI-compatible chat completions endpoint. A client is
// built per call because the credential can change with every request.
type Adapter struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     output.LoggerPort
}

type loggingTransport struct {
	base   http.RoundTripper
	logger output.LoggerPort
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var bodyBytes []byte
	if req.Body != nil {
		bodyBytes, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	var requestData struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []any  `json:"messages"`
	}
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &requestData)
	}

	t.logger.Debug("HTTP Request",
		"method", req.Method,
		"url", req.URL.String(),
		"model", requestData.Model,
		"maxTokens", requestData.MaxTokens,
		"messages", len(requestData.Messages),
		"bytes", len(bodyBytes),
	)

	resp, err := t.base.RoundTrip(req)

	if resp != nil {
		t.logger.Debug("HTTP Response",
			"status", resp.Status,
			"statusCode", resp.StatusCode,
		)
	}

	return resp, err
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	httpClient := &http.Client{}
	if cfg.Debug && cfg.Logger != nil {
		httpClient.Transport = &loggingTransport{
			base:   http.DefaultTransport,
			logger: cfg.Logger,
		}
	}

	return &Adapter{
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

func (a *Adapter) client(apiKey string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if a.baseURL != "" {
		config.BaseURL = a.baseURL
	}
	config.HTTPClient = a.httpClient
	return openai.NewClientWithConfig(config)
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	resp, err := a.client(req.APIKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    convertMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", providerError(err))
	}

	if len(resp.Choices) == 0 {
		if a.logger != nil {
			a.logger.Debug("chat completion returned no choices", "model", resp.Model)
		}
		return &output.ChatResponse{
			Message: convertResponseMessage(openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}),
		}, nil
	}

	if a.logger != nil {
		a.logger.Debug("chat completion finished",
			"model", resp.Model,
			"promptTokens", resp.Usage.PromptTokens,
			"completionTokens", resp.Usage.CompletionTokens,
			"finishReason", resp.Choices[0].FinishReason,
		)
	}

	return &output.ChatResponse{
		Message: convertResponseMessage(resp.Choices[0].Message),
	}, nil
}

// providerError lifts the message out of a structured API error so it can be
// shown to the caller unchanged.
func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &entity.ProviderError{Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &entity.ProviderError{Message: reqErr.Error(), Err: err}
	}
	return err
}

func convertMessages(messages []entity.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		oaiMsg := openai.ChatCompletionMessage{
			Role: string(msg.Role),
		}

		if len(msg.ContentBlocks) > 0 {
			oaiMsg.MultiContent = convertParts(msg.ContentBlocks)
		} else {
			oaiMsg.Content = msg.Content
		}

		result = append(result, oaiMsg)
	}
	return result
}

func convertParts(blocks []entity.ContentBlock) []openai.ChatMessagePart {
	parts := make([]openai.ChatMessagePart, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case entity.ContentTypeText:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: block.Text,
			})
		case entity.ContentTypeImage:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    block.ImageURL,
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
	}
	return parts
}

func convertResponseMessage(msg openai.ChatCompletionMessage) entity.Message {
	result := entity.Message{
		Role:    entity.MessageRole(msg.Role),
		Content: msg.Content,
	}

	if msg.Content != "" {
		result.ContentBlocks = append(result.ContentBlocks, entity.ContentBlock{
			Type: entity.ContentTypeText,
			Text: msg.Content,
		})
	}

	return result
}
