package entity

import "time"

const (
	DefaultMaxWaitTime = 30 * time.Second
	LayoutPromptLimit  = 5
)

type CaptureRequest struct {
	URL             string
	WaitForLazyLoad bool
	MaxWaitTime     time.Duration
}

// NewCaptureRequest applies the endpoint defaults: lazy loading on, 30s budget.
func NewCaptureRequest(url string) CaptureRequest {
	return CaptureRequest{
		URL:             url,
		WaitForLazyLoad: true,
		MaxWaitTime:     DefaultMaxWaitTime,
	}
}

type CaptureResult struct {
	Screenshot  string         `json:"screenshot"`
	HTML        string         `json:"html"`
	CSS         string         `json:"css"`
	Layout      *LayoutSummary `json:"layout"`
	// Stylesheets lists each downloaded sheet under the local name the HTML
	// now points at.
	Stylesheets []Stylesheet   `json:"-"`
}

type Stylesheet struct {
	Href      string
	LocalName string
	CSS       string
}

type ComputedStyles struct {
	Color      string `json:"color"`
	Background string `json:"background"`
	FontSize   string `json:"fontSize"`
	FontWeight string `json:"fontWeight"`
	FontFamily string `json:"fontFamily"`
	Border     string `json:"border"`
	Margin     string `json:"margin"`
	Padding    string `json:"padding"`
	Display    string `json:"display"`
}

// ElementSnapshot is one rendered element reduced to its tag, markup and the
// computed styles the clone prompt cares about. Text is set for buttons,
// headings and text blocks, even when empty, and nil for navs and sections.
type ElementSnapshot struct {
	Tag    string         `json:"tag"`
	Text   *string        `json:"text,omitempty"`
	HTML   string         `json:"html"`
	Styles ComputedStyles `json:"styles"`
}

func TextOf(s string) *string {
	return &s
}

// TextValue returns the element text, or "" when it has none.
func (e ElementSnapshot) TextValue() string {
	if e.Text == nil {
		return ""
	}
	return *e.Text
}

type LayoutSummary struct {
	Navs       []ElementSnapshot `json:"navs"`
	Sections   []ElementSnapshot `json:"sections"`
	Buttons    []ElementSnapshot `json:"buttons"`
	Headings   []ElementSnapshot `json:"headings"`
	TextBlocks []ElementSnapshot `json:"textBlocks"`
}

// Truncate returns a copy holding at most limit entries per category, in
// document order.
func (l *LayoutSummary) Truncate(limit int) *LayoutSummary {
	if l == nil {
		return &LayoutSummary{}
	}
	return &LayoutSummary{
		Navs:       head(l.Navs, limit),
		Sections:   head(l.Sections, limit),
		Buttons:    head(l.Buttons, limit),
		Headings:   head(l.Headings, limit),
		TextBlocks: head(l.TextBlocks, limit),
	}
}

func (l *LayoutSummary) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Navs) + len(l.Sections) + len(l.Buttons) + len(l.Headings) + len(l.TextBlocks)
}

func head(items []ElementSnapshot, limit int) []ElementSnapshot {
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]ElementSnapshot, len(items))
	copy(out, items)
	return out
}

type SynthesisRequest struct {
	Layout     *LayoutSummary
	Screenshot string
	APIKey     string
}

type SynthesisResult struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
	Raw  string `json:"-"`
}
