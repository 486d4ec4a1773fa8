package output

import (
	"context"
	"time"

	"webclone/internal/domain/entity"
)

// BrowserLauncher starts one isolated browser session per capture. The
// caller owns the session and must Close it.
type BrowserLauncher interface {
	Launch(ctx context.Context, profile entity.BrowserProfile) (BrowserSession, error)
}

type BrowserSession interface {
	Navigate(ctx context.Context, url string, until entity.WaitUntil, timeout time.Duration) error
	WaitNetworkIdle(ctx context.Context, timeout time.Duration) error

	ScrollTo(ctx context.Context, y int) error
	ScrollToBottom(ctx context.Context) error
	ScrollHeight(ctx context.Context) (int, error)
	ViewportHeight(ctx context.Context) (int, error)

	WaitImages(ctx context.Context, perImage time.Duration) error
	WaitVideos(ctx context.Context, perVideo time.Duration) error

	HTML(ctx context.Context) (string, error)
	StylesheetURLs(ctx context.Context) ([]string, error)
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Layout(ctx context.Context) (*entity.LayoutSummary, error)

	Close() error
}
