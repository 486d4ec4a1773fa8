package rod

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserLauncher = (*Launcher)(nil)
	_ output.BrowserSession  = (*Session)(nil)
)

const (
	defaultQuality  = 80
	idleQuietPeriod = 500 * time.Millisecond
	mediaEvalSlack  = 10 * time.Second
)

type BrowserConfig struct {
	Bin               string
	Headless          bool
	NoSandbox         bool
	Stealth           bool
	Trace             bool
	ScreenshotFormat  string
	ScreenshotQuality int
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:          true,
		NoSandbox:         true,
		Stealth:           true,
		ScreenshotFormat:  "png",
		ScreenshotQuality: defaultQuality,
	}
}

// Launcher starts a fresh Chrome process for every session.
type Launcher struct {
	cfg    BrowserConfig
	logger output.LoggerPort
}

func NewLauncher(cfg BrowserConfig, logger output.LoggerPort) *Launcher {
	if cfg.ScreenshotQuality <= 0 || cfg.ScreenshotQuality > 100 {
		cfg.ScreenshotQuality = defaultQuality
	}
	return &Launcher{cfg: cfg, logger: logger}
}

func (l *Launcher) Launch(ctx context.Context, profile entity.BrowserProfile) (output.BrowserSession, error) {
	lnch := launcher.New().
		Headless(l.cfg.Headless).
		NoSandbox(l.cfg.NoSandbox).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage")
	if l.cfg.Bin != "" {
		lnch = lnch.Bin(l.cfg.Bin)
	}

	controlURL, err := lnch.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	s := &Session{launcher: lnch}
	s.format, s.quality = screenshotParams(l.cfg)

	s.browser = rod.New().ControlURL(controlURL).Trace(l.cfg.Trace)
	if err := s.browser.Connect(); err != nil {
		s.browser = nil
		_ = s.Close()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	if l.cfg.Stealth {
		s.page, err = stealth.Page(s.browser)
	} else {
		s.page, err = s.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := applyProfile(s.page, profile); err != nil {
		_ = s.Close()
		return nil, err
	}

	if l.logger != nil {
		l.logger.Debug("Browser session started", "stealth", l.cfg.Stealth, "headless", l.cfg.Headless)
	}
	return s, nil
}

func applyProfile(page *rod.Page, profile entity.BrowserProfile) error {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             profile.Viewport.Width,
		Height:            profile.Viewport.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("set viewport: %w", err)
	}

	if profile.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      profile.UserAgent,
			AcceptLanguage: profile.ExtraHeaders["Accept-Language"],
		}); err != nil {
			return fmt.Errorf("set user agent: %w", err)
		}
	}

	if len(profile.ExtraHeaders) > 0 {
		if _, err := page.SetExtraHeaders(headerPairs(profile.ExtraHeaders)); err != nil {
			return fmt.Errorf("set extra headers: %w", err)
		}
	}
	return nil
}

func headerPairs(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, headers[k])
	}
	return pairs
}

func screenshotParams(cfg BrowserConfig) (proto.PageCaptureScreenshotFormat, int) {
	switch cfg.ScreenshotFormat {
	case "jpeg", "jpg":
		return proto.PageCaptureScreenshotFormatJpeg, cfg.ScreenshotQuality
	default:
		return proto.PageCaptureScreenshotFormatPng, 0
	}
}

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	format   proto.PageCaptureScreenshotFormat
	quality  int

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Navigate(ctx context.Context, url string, until entity.WaitUntil, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := s.page.Context(navCtx)
	wait := page.WaitNavigation(lifecycleEvent(until))
	if err := page.Navigate(url); err != nil {
		if navCtx.Err() != nil && ctx.Err() == nil {
			return fmt.Errorf("%w: %s after %s", entity.ErrNavigationTimeout, until, timeout)
		}
		return fmt.Errorf("navigation failed: %w", err)
	}
	wait()

	if navCtx.Err() != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s after %s", entity.ErrNavigationTimeout, until, timeout)
	}
	return nil
}

func lifecycleEvent(until entity.WaitUntil) proto.PageLifecycleEventName {
	if until == entity.WaitDOMContentLoaded {
		return proto.PageLifecycleEventNameDOMContentLoaded
	}
	return proto.PageLifecycleEventNameNetworkIdle
}

// WaitNetworkIdle blocks until no request has been in flight for
// idleQuietPeriod, or returns ErrNetworkIdleTimeout once timeout elapses.
func (s *Session) WaitNetworkIdle(ctx context.Context, timeout time.Duration) error {
	idleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wait := s.page.Context(idleCtx).WaitRequestIdle(idleQuietPeriod, nil, nil, nil)
	wait()

	if idleCtx.Err() != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return entity.ErrNetworkIdleTimeout
	}
	return nil
}

func (s *Session) ScrollTo(ctx context.Context, y int) error {
	_, err := s.page.Context(ctx).Eval(scrollToJS, y)
	return err
}

func (s *Session) ScrollToBottom(ctx context.Context) error {
	_, err := s.page.Context(ctx).Eval(scrollToBottomJS)
	return err
}

func (s *Session) ScrollHeight(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(scrollHeightJS)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (s *Session) ViewportHeight(ctx context.Context) (int, error) {
	res, err := s.page.Context(ctx).Eval(viewportHeightJS)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

func (s *Session) WaitImages(ctx context.Context, perImage time.Duration) error {
	return s.waitMedia(ctx, waitImagesJS, perImage)
}

func (s *Session) WaitVideos(ctx context.Context, perVideo time.Duration) error {
	return s.waitMedia(ctx, waitVideosJS, perVideo)
}

func (s *Session) waitMedia(ctx context.Context, js string, budget time.Duration) error {
	evalCtx, cancel := context.WithTimeout(ctx, budget+mediaEvalSlack)
	defer cancel()

	_, err := s.page.Context(evalCtx).Eval(js, budget.Milliseconds())
	return err
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(documentHTMLJS)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (s *Session) StylesheetURLs(ctx context.Context) ([]string, error) {
	res, err := s.page.Context(ctx).Eval(stylesheetLinksJS)
	if err != nil {
		return nil, err
	}
	items := res.Value.Arr()
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.Str())
	}
	return urls, nil
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	req := &proto.PageCaptureScreenshot{Format: s.format}
	format := "png"
	if s.format == proto.PageCaptureScreenshotFormatJpeg {
		req.Quality = gson.Int(s.quality)
		format = "jpeg"
	}

	data, err := s.page.Context(ctx).Screenshot(true, req)
	if err != nil {
		return nil, err
	}
	return &entity.Screenshot{Data: data, Format: format}, nil
}

func (s *Session) Layout(ctx context.Context) (*entity.LayoutSummary, error) {
	res, err := s.page.Context(ctx).Eval(layoutJS)
	if err != nil {
		return nil, err
	}
	return decodeLayout(res.Value)
}

func decodeLayout(v gson.JSON) (*entity.LayoutSummary, error) {
	var layout entity.LayoutSummary
	if err := json.Unmarshal([]byte(v.JSON("", "")), &layout); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return &layout, nil
}

// Close shuts the browser down and kills the Chrome process. Safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.closeErr
}
