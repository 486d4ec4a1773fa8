package entity

type WaitUntil string

const (
	WaitNetworkIdle      WaitUntil = "networkidle"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 900
)

type Viewport struct {
	Width  int
	Height int
}

// BrowserProfile is what every capture session looks like to the site:
// a desktop Chrome with ordinary navigation headers.
type BrowserProfile struct {
	Viewport     Viewport
	UserAgent    string
	ExtraHeaders map[string]string
}

func DefaultBrowserProfile() BrowserProfile {
	return BrowserProfile{
		Viewport:  Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		UserAgent: DefaultUserAgent,
		ExtraHeaders: map[string]string{
			"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language":           "en-US,en;q=0.9",
			"Accept-Encoding":           "gzip, deflate, br",
			"DNT":                       "1",
			"Connection":                "keep-alive",
			"Upgrade-Insecure-Requests": "1",
		},
	}
}

type Screenshot struct {
	Data   []byte
	Format string
}
