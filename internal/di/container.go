package di

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"webclone/internal/adapter/httpapi"
	"webclone/internal/application/port/input"
	"webclone/internal/application/port/output"
	"webclone/internal/infrastructure/browser/rod"
	"webclone/internal/infrastructure/llm/langchain"
	"webclone/internal/infrastructure/llm/openaiapi"
	"webclone/internal/infrastructure/logger"
	"webclone/internal/infrastructure/screenshot"
	"webclone/internal/infrastructure/stylesheet"
	"webclone/internal/usecase/capture"
	"webclone/internal/usecase/synthesis"
)

const (
	ProviderOpenAI     = "openai"
	ProviderLangchain  = "langchaingo"
	defaultHTTPAddress = ":8080"
)

type Container struct {
	Logger      output.LoggerPort
	LLM         output.LLMPort
	Capture     input.CaptureExecutor
	Synthesizer input.CloneSynthesizer

	cfg Config
}

type Config struct {
	HTTPAddr     string
	LogLevel     string
	MaxBodyBytes int64

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	LLMProvider   string
	LLMDebug      bool

	Browser           rod.BrowserConfig
	StylesheetTimeout time.Duration
	ImageMaxWidth     int
}

// ConfigFromEnv reads every setting the service understands. Missing keys
// fall back to defaults.
func ConfigFromEnv(env output.ConfigPort) Config {
	browser := rod.DefaultConfig()
	browser.Bin = env.Get("BROWSER_BIN")
	browser.Stealth = env.GetBool("BROWSER_STEALTH", browser.Stealth)
	browser.NoSandbox = env.GetBool("BROWSER_NO_SANDBOX", browser.NoSandbox)
	browser.Headless = env.GetBool("BROWSER_HEADLESS", browser.Headless)
	browser.ScreenshotFormat = env.GetWithDefault("SCREENSHOT_FORMAT", browser.ScreenshotFormat)
	browser.ScreenshotQuality = env.GetInt("SCREENSHOT_QUALITY", browser.ScreenshotQuality)

	return Config{
		HTTPAddr:          env.GetWithDefault("HTTP_ADDR", defaultHTTPAddress),
		LogLevel:          env.GetWithDefault("LOG_LEVEL", "info"),
		MaxBodyBytes:      int64(env.GetInt("MAX_BODY_BYTES", int(httpapi.DefaultMaxBodyBytes))),
		OpenAIAPIKey:      env.Get("OPENAI_API_KEY"),
		OpenAIModel:       env.GetWithDefault("OPENAI_MODEL", openaiapi.DefaultModel),
		OpenAIBaseURL:     env.Get("OPENAI_BASE_URL"),
		LLMProvider:       env.GetWithDefault("LLM_PROVIDER", ProviderOpenAI),
		LLMDebug:          env.GetBool("LLM_DEBUG", false),
		Browser:           browser,
		StylesheetTimeout: env.GetDuration("STYLESHEET_TIMEOUT", 15*time.Second),
		ImageMaxWidth:     env.GetInt("SYNTH_IMAGE_MAX_WIDTH", screenshot.DefaultMaxWidth),
	}
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newContainer(cfg, log)
}

func newContainer(cfg Config, log output.LoggerPort) (*Container, error) {
	llm, err := newLLM(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	launcher := rod.NewLauncher(cfg.Browser, log)
	fetcher := stylesheet.NewHTTPFetcher(stylesheet.Config{Timeout: cfg.StylesheetTimeout})
	captureUC := capture.New(launcher, fetcher, log)

	synthCfg := synthesis.DefaultConfig(cfg.OpenAIAPIKey)
	synthUC := synthesis.New(llm, screenshot.NewResizer(cfg.ImageMaxWidth), log, synthCfg)

	return &Container{
		Logger:      log,
		LLM:         llm,
		Capture:     captureUC,
		Synthesizer: synthUC,
		cfg:         cfg,
	}, nil
}

func newLLM(cfg Config, log output.LoggerPort) (output.LLMPort, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case "", ProviderOpenAI:
		return openaiapi.NewAdapter(openaiapi.Config{
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Debug:   cfg.LLMDebug,
			Logger:  log,
		}), nil
	case ProviderLangchain:
		return langchain.NewAdapter(langchain.Config{
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Logger:  log,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func (c *Container) HTTPAddr() string {
	return c.cfg.HTTPAddr
}

func (c *Container) HTTPHandler() http.Handler {
	return httpapi.NewHandler(c.Capture, c.Synthesizer, c.Logger, httpapi.Config{
		MaxBodyBytes: c.cfg.MaxBodyBytes,
		AccessLog:    true,
		LogLevel:     c.cfg.LogLevel,
	}).Routes()
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
