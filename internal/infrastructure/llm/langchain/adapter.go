package langchain

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var _ output.LLMPort = (*Adapter)(nil)

type Config struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     output.LoggerPort
}

// Adapter serves LLMPort through langchaingo's OpenAI client.
type Adapter struct {
	cfg Config
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	return &Adapter{cfg: cfg}
}

func (a *Adapter) model(apiKey string) (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(a.cfg.Model),
	}
	if a.cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(a.cfg.BaseURL))
	}
	if a.cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(a.cfg.HTTPClient))
	}
	return openai.New(opts...)
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	llm, err := a.model(req.APIKey)
	if err != nil {
		return nil, fmt.Errorf("langchain client: %w", err)
	}

	resp, err := llm.GenerateContent(ctx, convertMessages(req.Messages),
		llms.WithTemperature(float64(req.Temperature)),
		llms.WithMaxTokens(req.MaxTokens),
	)
	if isEmptyResponse(err) || (err == nil && len(resp.Choices) == 0) {
		if a.cfg.Logger != nil {
			a.cfg.Logger.Debug("langchain generation returned no choices")
		}
		return assistantReply(""), nil
	}
	if err != nil {
		return nil, &entity.ProviderError{Message: err.Error(), Err: err}
	}

	choice := resp.Choices[0]
	if a.cfg.Logger != nil {
		a.cfg.Logger.Debug("langchain generation finished", "stopReason", choice.StopReason)
	}
	return assistantReply(choice.Content), nil
}

// emptyChoicesMessage is the text of langchaingo's internal client error for
// a completion without choices; that sentinel is not importable.
const emptyChoicesMessage = "empty response"

func isEmptyResponse(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, openai.ErrEmptyResponse) || err.Error() == emptyChoicesMessage
}

func assistantReply(content string) *output.ChatResponse {
	return &output.ChatResponse{
		Message: entity.Message{
			Role:    entity.RoleAssistant,
			Content: content,
			ContentBlocks: []entity.ContentBlock{
				{Type: entity.ContentTypeText, Text: content},
			},
		},
	}
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		mc := llms.MessageContent{Role: roleOf(msg.Role)}

		if len(msg.ContentBlocks) == 0 {
			mc.Parts = []llms.ContentPart{llms.TextPart(msg.Content)}
		}
		for _, block := range msg.ContentBlocks {
			switch block.Type {
			case entity.ContentTypeText:
				mc.Parts = append(mc.Parts, llms.TextPart(block.Text))
			case entity.ContentTypeImage:
				mc.Parts = append(mc.Parts, llms.ImageURLPart(block.ImageURL))
			}
		}

		result = append(result, mc)
	}
	return result
}

func roleOf(role entity.MessageRole) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
