package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
	"webclone/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	reply string
	err   error

	calls int
	last  output.ChatRequest
}

func (f *fakeLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &output.ChatResponse{
		Message: entity.Message{Role: entity.RoleAssistant, Content: f.reply},
	}, nil
}

type fakePreparer struct {
	out  string
	mime string
	err  error
	seen string
}

func (f *fakePreparer) Prepare(b64 string) (string, string, error) {
	f.seen = b64
	if f.err != nil {
		return "", "", f.err
	}
	if f.out == "" {
		return b64, "image/png", nil
	}
	return f.out, f.mime, nil
}

func snapshots(tag string, n int) []entity.ElementSnapshot {
	out := make([]entity.ElementSnapshot, n)
	for i := range out {
		out[i] = entity.ElementSnapshot{Tag: tag, Text: entity.TextOf(fmt.Sprintf("%s-%d", tag, i))}
	}
	return out
}

func testLayout() *entity.LayoutSummary {
	return &entity.LayoutSummary{
		Navs:       snapshots("nav", 1),
		Sections:   snapshots("section", 2),
		Buttons:    snapshots("button", 7),
		Headings:   snapshots("h1", 12),
		TextBlocks: snapshots("p", 3),
	}
}

func newTestUseCase(llm *fakeLLM, images *fakePreparer, defaultKey string) *UseCase {
	if images == nil {
		images = &fakePreparer{}
	}
	return New(llm, images, logger.NewNop(), DefaultConfig(defaultKey))
}

func TestSynthesize_Success(t *testing.T) {
	llm := &fakeLLM{reply: "<!-- HTML -->\n<div class=\"hero\">Hi</div>\n<!-- CSS -->\n.hero{color:red}"}
	uc := newTestUseCase(llm, nil, "")

	result, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout:     testLayout(),
		Screenshot: "c2hvdA==",
		APIKey:     "sk-request",
	})
	require.NoError(t, err)

	assert.Equal(t, `<div class="hero">Hi</div>`, result.HTML)
	assert.Equal(t, ".hero{color:red}", result.CSS)
	assert.Contains(t, result.Raw, "<!-- CSS -->")
	assert.Equal(t, 1, llm.calls)
}

func TestSynthesize_EmptyReply(t *testing.T) {
	uc := newTestUseCase(&fakeLLM{}, nil, "")

	result, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout:     testLayout(),
		Screenshot: "c2hvdA==",
		APIKey:     "sk-request",
	})
	require.NoError(t, err)
	assert.Empty(t, result.HTML)
	assert.Empty(t, result.CSS)
}

func TestSynthesize_RequestShape(t *testing.T) {
	llm := &fakeLLM{reply: "<!-- HTML --><p></p>"}
	images := &fakePreparer{out: "c21hbGw=", mime: "image/png"}
	uc := newTestUseCase(llm, images, "")

	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout:     testLayout(),
		Screenshot: "b3JpZ2luYWw=",
		APIKey:     "sk-request",
	})
	require.NoError(t, err)

	req := llm.last
	assert.Equal(t, "sk-request", req.APIKey)
	assert.Equal(t, float32(0.2), req.Temperature)
	assert.Equal(t, 2048, req.MaxTokens)
	require.Len(t, req.Messages, 2)

	assert.Equal(t, entity.RoleSystem, req.Messages[0].Role)
	assert.NotEmpty(t, req.Messages[0].Content)

	user := req.Messages[1]
	assert.Equal(t, entity.RoleUser, user.Role)
	require.Len(t, user.ContentBlocks, 2)
	assert.Equal(t, entity.ContentTypeText, user.ContentBlocks[0].Type)
	assert.Equal(t, entity.ContentTypeImage, user.ContentBlocks[1].Type)
	assert.Equal(t, "data:image/png;base64,c21hbGw=", user.ContentBlocks[1].ImageURL)
	assert.Equal(t, "b3JpZ2luYWw=", images.seen)
}

func TestSynthesize_TruncatesLayoutInPrompt(t *testing.T) {
	llm := &fakeLLM{reply: "<!-- HTML --><p></p>"}
	uc := newTestUseCase(llm, nil, "sk-default")

	layout := testLayout()
	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{Layout: layout, Screenshot: "eA=="})
	require.NoError(t, err)

	prompt := llm.last.Messages[1].ContentBlocks[0].Text
	assert.Contains(t, prompt, "h1-4")
	assert.NotContains(t, prompt, "h1-5")
	assert.Contains(t, prompt, "button-4")
	assert.NotContains(t, prompt, "button-5")
	assert.Contains(t, prompt, "section-1")

	assert.Len(t, layout.Headings, 12, "caller layout must not be modified")
}

func TestSynthesize_DefaultKeyFallback(t *testing.T) {
	llm := &fakeLLM{reply: "<div></div>"}
	uc := newTestUseCase(llm, nil, "sk-default")

	result, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout:     testLayout(),
		Screenshot: "eA==",
		APIKey:     "  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "sk-default", llm.last.APIKey)
	assert.Equal(t, "<div></div>", result.HTML)
	assert.Empty(t, result.CSS)
}

func TestSynthesize_MissingCredential_NoLLMCall(t *testing.T) {
	llm := &fakeLLM{reply: "unused"}
	uc := newTestUseCase(llm, nil, "")

	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout:     testLayout(),
		Screenshot: "eA==",
	})

	assert.ErrorIs(t, err, entity.ErrMissingCredential)
	assert.Equal(t, 0, llm.calls)
}

func TestSynthesize_MissingInput(t *testing.T) {
	tests := []struct {
		name string
		req  entity.SynthesisRequest
	}{
		{"Nil layout", entity.SynthesisRequest{Screenshot: "eA==", APIKey: "k"}},
		{"Empty screenshot", entity.SynthesisRequest{Layout: testLayout(), APIKey: "k"}},
		{"Blank screenshot", entity.SynthesisRequest{Layout: testLayout(), Screenshot: "   ", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{}
			uc := newTestUseCase(llm, nil, "sk-default")

			_, err := uc.Synthesize(context.Background(), tt.req)

			assert.ErrorIs(t, err, entity.ErrMissingInput)
			assert.Equal(t, 0, llm.calls)
		})
	}
}

func TestSynthesize_ProviderErrorPassesThrough(t *testing.T) {
	perr := &entity.ProviderError{Message: "Incorrect API key provided"}
	llm := &fakeLLM{err: fmt.Errorf("chat completion failed: %w", perr)}
	uc := newTestUseCase(llm, nil, "")

	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout: testLayout(), Screenshot: "eA==", APIKey: "bad",
	})

	var got *entity.ProviderError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "Incorrect API key provided", got.Message)
	assert.Equal(t, 1, llm.calls)
}

func TestSynthesize_UnstructuredErrorWrapped(t *testing.T) {
	llm := &fakeLLM{err: errors.New("connection refused")}
	uc := newTestUseCase(llm, nil, "")

	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout: testLayout(), Screenshot: "eA==", APIKey: "k",
	})

	var got *entity.ProviderError
	require.ErrorAs(t, err, &got)
	assert.True(t, strings.Contains(got.Message, "connection refused"))
}

func TestSynthesize_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	llm := &fakeLLM{err: context.Canceled}
	uc := newTestUseCase(llm, nil, "")

	_, err := uc.Synthesize(ctx, entity.SynthesisRequest{
		Layout: testLayout(), Screenshot: "eA==", APIKey: "k",
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestSynthesize_PreparerError(t *testing.T) {
	llm := &fakeLLM{}
	uc := newTestUseCase(llm, &fakePreparer{err: errors.New("boom")}, "")

	_, err := uc.Synthesize(context.Background(), entity.SynthesisRequest{
		Layout: testLayout(), Screenshot: "eA==", APIKey: "k",
	})

	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 0, llm.calls)
}
