package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
)

type navCall struct {
	URL     string
	Until   entity.WaitUntil
	Timeout time.Duration
}

type fakeSession struct {
	mu sync.Mutex

	navErr      map[entity.WaitUntil]error
	heights     []int
	viewport    int
	viewportErr error
	scrollErr   error
	imagesErr   error
	idleErr     error
	html        string
	htmlErr     error
	links       []string
	shot        []byte
	shotErr     error
	layout      *entity.LayoutSummary
	layoutErr   error

	navCalls    []navCall
	scrolls     []int
	heightCalls int
	idleWaits   []time.Duration
	closed      int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		navErr:   map[entity.WaitUntil]error{},
		heights:  []int{900},
		viewport: 900,
		html:     "<html><body><h1>Hi</h1></body></html>",
		shot:     []byte("png-bytes"),
		layout:   &entity.LayoutSummary{Headings: []entity.ElementSnapshot{{Tag: "h1", Text: entity.TextOf("Hi")}}},
	}
}

var _ output.BrowserSession = (*fakeSession)(nil)

func (f *fakeSession) Navigate(ctx context.Context, url string, until entity.WaitUntil, timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navCalls = append(f.navCalls, navCall{URL: url, Until: until, Timeout: timeout})
	return f.navErr[until]
}

func (f *fakeSession) WaitNetworkIdle(ctx context.Context, timeout time.Duration) error {
	f.idleWaits = append(f.idleWaits, timeout)
	return f.idleErr
}

func (f *fakeSession) ScrollTo(ctx context.Context, y int) error {
	if f.scrollErr != nil {
		return f.scrollErr
	}
	f.scrolls = append(f.scrolls, y)
	return nil
}

func (f *fakeSession) ScrollToBottom(ctx context.Context) error {
	f.scrolls = append(f.scrolls, -1)
	return nil
}

// ScrollHeight returns the configured heights in order and then repeats the
// last one, so tests can model pages that grow while scrolling.
func (f *fakeSession) ScrollHeight(ctx context.Context) (int, error) {
	i := f.heightCalls
	f.heightCalls++
	if i >= len(f.heights) {
		i = len(f.heights) - 1
	}
	return f.heights[i], nil
}

func (f *fakeSession) ViewportHeight(ctx context.Context) (int, error) {
	return f.viewport, f.viewportErr
}

func (f *fakeSession) WaitImages(ctx context.Context, perImage time.Duration) error {
	return f.imagesErr
}

func (f *fakeSession) WaitVideos(ctx context.Context, perVideo time.Duration) error {
	return nil
}

func (f *fakeSession) HTML(ctx context.Context) (string, error) {
	return f.html, f.htmlErr
}

func (f *fakeSession) StylesheetURLs(ctx context.Context) ([]string, error) {
	return f.links, nil
}

func (f *fakeSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return &entity.Screenshot{Data: f.shot, Format: "png"}, nil
}

func (f *fakeSession) Layout(ctx context.Context) (*entity.LayoutSummary, error) {
	return f.layout, f.layoutErr
}

func (f *fakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

type fakeLauncher struct {
	session  *fakeSession
	err      error
	launches int
	profile  entity.BrowserProfile
}

func (l *fakeLauncher) Launch(ctx context.Context, profile entity.BrowserProfile) (output.BrowserSession, error) {
	l.launches++
	l.profile = profile
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

type fakeFetcher struct {
	bodies  map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	body, ok := f.bodies[url]
	if !ok {
		return "", fmt.Errorf("GET %s: %w", url, errors.New("status 404"))
	}
	return body, nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	return ctx.Err()
}
