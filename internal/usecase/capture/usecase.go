package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"webclone/internal/application/port/input"
	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.CaptureExecutor = (*UseCase)(nil)

// Timings holds every fixed delay and wait budget of the pipeline.
type Timings struct {
	FallbackSettle   time.Duration
	PlainSettle      time.Duration
	ScrollPause      time.Duration
	ScrollIdle       time.Duration
	BottomSettle     time.Duration
	ImageBudget      time.Duration
	VideoBudget      time.Duration
	FinalIdle        time.Duration
	TopSettle        time.Duration
	LazyLoadFallback time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		FallbackSettle:   3 * time.Second,
		PlainSettle:      1 * time.Second,
		ScrollPause:      500 * time.Millisecond,
		ScrollIdle:       2 * time.Second,
		BottomSettle:     1 * time.Second,
		ImageBudget:      5 * time.Second,
		VideoBudget:      3 * time.Second,
		FinalIdle:        3 * time.Second,
		TopSettle:        500 * time.Millisecond,
		LazyLoadFallback: 2 * time.Second,
	}
}

const (
	scrollStepRatio       = 0.8
	defaultMaxScrollSteps = 200
)

type SleepFunc func(ctx context.Context, d time.Duration) error

type UseCase struct {
	launcher       output.BrowserLauncher
	stylesheets    output.StylesheetFetcher
	logger         output.LoggerPort
	profile        entity.BrowserProfile
	timings        Timings
	maxScrollSteps int
	sleep          SleepFunc
}

type Option func(*UseCase)

func WithTimings(t Timings) Option {
	return func(uc *UseCase) { uc.timings = t }
}

func WithProfile(p entity.BrowserProfile) Option {
	return func(uc *UseCase) { uc.profile = p }
}

func WithSleep(fn SleepFunc) Option {
	return func(uc *UseCase) { uc.sleep = fn }
}

func WithMaxScrollSteps(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.maxScrollSteps = n
		}
	}
}

func New(
	launcher output.BrowserLauncher,
	stylesheets output.StylesheetFetcher,
	logger output.LoggerPort,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		launcher:       launcher,
		stylesheets:    stylesheets,
		logger:         logger,
		profile:        entity.DefaultBrowserProfile(),
		timings:        DefaultTimings(),
		maxScrollSteps: defaultMaxScrollSteps,
		sleep:          sleepContext,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) Capture(ctx context.Context, req entity.CaptureRequest) (*entity.CaptureResult, error) {
	target, err := validate(req)
	if err != nil {
		return nil, err
	}
	req.URL = target
	if req.MaxWaitTime <= 0 {
		req.MaxWaitTime = entity.DefaultMaxWaitTime
	}

	log := uc.logger.WithFields(map[string]any{
		"capture_id": uuid.NewString(),
		"url":        req.URL,
	})
	start := time.Now()
	log.Info("Capture started", "lazyLoad", req.WaitForLazyLoad, "maxWait", req.MaxWaitTime.String())

	var result *entity.CaptureResult
	err = uc.withSession(ctx, log, func(s output.BrowserSession) error {
		var err error
		result, err = uc.run(ctx, s, req, log)
		return err
	})
	if err != nil {
		log.Error("Capture failed", "error", err, "duration", time.Since(start).String())
		return nil, err
	}

	log.Info("Capture completed",
		"duration", time.Since(start).String(),
		"htmlLen", len(result.HTML),
		"cssLen", len(result.CSS),
		"elements", result.Layout.Count())
	return result, nil
}

// withSession launches a browser session and releases it on every exit path.
func (uc *UseCase) withSession(ctx context.Context, log output.LoggerPort, fn func(output.BrowserSession) error) error {
	session, err := uc.launcher.Launch(ctx, uc.profile)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			log.Warn("Browser close failed", "error", cerr)
		}
	}()
	return fn(session)
}

func (uc *UseCase) run(ctx context.Context, s output.BrowserSession, req entity.CaptureRequest, log output.LoggerPort) (*entity.CaptureResult, error) {
	outcome, err := uc.navigate(ctx, s, req, log)
	if err != nil {
		return nil, err
	}
	log.Debug("Navigation finished", "outcome", outcome.String())

	if req.WaitForLazyLoad {
		lazy := uc.triggerLazyLoad(ctx, s, log)
		log.Debug("Lazy loading finished", "outcome", lazy.String())
	} else if err := uc.sleep(ctx, uc.timings.PlainSettle); err != nil {
		return nil, err
	}

	html, err := s.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read page HTML: %w", err)
	}
	if strings.TrimSpace(html) == "" {
		return nil, entity.ErrEmptyContent
	}

	links, err := s.StylesheetURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stylesheets: %w", err)
	}
	html, css, sheets := uc.embedStylesheets(ctx, html, links, log)

	shot, err := s.Screenshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	layout, err := s.Layout(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout extraction failed: %w", err)
	}

	return &entity.CaptureResult{
		Screenshot:  base64.StdEncoding.EncodeToString(shot.Data),
		HTML:        html,
		CSS:         css,
		Layout:      layout,
		Stylesheets: sheets,
	}, nil
}

// validate returns the trimmed URL the capture navigates to.
func validate(req entity.CaptureRequest) (string, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return "", fmt.Errorf("%w: url is required", entity.ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", entity.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", entity.ErrInvalidURL)
	}
	return raw, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
