package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"webclone/internal/application/port/input"
	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
	"webclone/internal/infrastructure/prompts"
)

var _ input.CloneSynthesizer = (*UseCase)(nil)

const (
	DefaultTemperature float32 = 0.2
	DefaultMaxTokens           = 2048
)

type Config struct {
	// DefaultAPIKey is used when a request carries no key of its own.
	DefaultAPIKey  string
	SystemPrompt   string
	PromptTemplate string
	Temperature    float32
	MaxTokens      int
}

func DefaultConfig(apiKey string) Config {
	return Config{
		DefaultAPIKey:  apiKey,
		SystemPrompt:   prompts.SystemPrompt,
		PromptTemplate: prompts.ClonePrompt,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
	}
}

type UseCase struct {
	llm    output.LLMPort
	images output.ScreenshotPreparer
	logger output.LoggerPort
	cfg    Config
}

func New(llm output.LLMPort, images output.ScreenshotPreparer, logger output.LoggerPort, cfg Config) *UseCase {
	return &UseCase{
		llm:    llm,
		images: images,
		logger: logger,
		cfg:    cfg,
	}
}

func (uc *UseCase) Synthesize(ctx context.Context, req entity.SynthesisRequest) (*entity.SynthesisResult, error) {
	if req.Layout == nil || strings.TrimSpace(req.Screenshot) == "" {
		return nil, entity.ErrMissingInput
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = uc.cfg.DefaultAPIKey
	}
	if apiKey == "" {
		return nil, entity.ErrMissingCredential
	}

	layout := req.Layout.Truncate(entity.LayoutPromptLimit)
	prompt, err := prompts.GenerateClonePrompt(uc.cfg.PromptTemplate, layout)
	if err != nil {
		return nil, fmt.Errorf("render clone prompt: %w", err)
	}

	image, mime, err := uc.images.Prepare(req.Screenshot)
	if err != nil {
		return nil, fmt.Errorf("prepare screenshot: %w", err)
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.cfg.SystemPrompt},
		{
			Role: entity.RoleUser,
			ContentBlocks: []entity.ContentBlock{
				{Type: entity.ContentTypeText, Text: prompt},
				{Type: entity.ContentTypeImage, ImageURL: "data:" + mime + ";base64," + image},
			},
		},
	}

	uc.logger.Info("requesting clone",
		"elements", layout.Count(),
		"promptChars", len(prompt),
		"imageBytes", len(image),
	)

	resp, err := uc.llm.Chat(ctx, output.ChatRequest{
		APIKey:      apiKey,
		Messages:    messages,
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		uc.logger.Error("clone generation failed", "error", err)
		var perr *entity.ProviderError
		if errors.As(err, &perr) {
			return nil, err
		}
		return nil, &entity.ProviderError{Message: err.Error(), Err: err}
	}

	raw := messageText(resp.Message)
	html, css := ParseOutput(raw)

	uc.logger.Info("clone generated", "htmlChars", len(html), "cssChars", len(css))

	return &entity.SynthesisResult{HTML: html, CSS: css, Raw: raw}, nil
}

func messageText(msg entity.Message) string {
	if msg.Content != "" {
		return msg.Content
	}
	var b strings.Builder
	for _, block := range msg.ContentBlocks {
		if block.Type == entity.ContentTypeText {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
