package synthesis

import (
	"regexp"
	"strings"
)

var (
	htmlSectionRe = regexp.MustCompile(`(?is)<!--\s*HTML\s*-->(.*?)(?:<!--\s*CSS\s*-->|$)`)
	cssSectionRe  = regexp.MustCompile(`(?is)<!--\s*CSS\s*-->(.*)`)
)

// ParseOutput splits model output on the <!-- HTML --> and <!-- CSS -->
// markers. Without an HTML marker the whole output is treated as HTML and the
// CSS is empty.
func ParseOutput(raw string) (html, css string) {
	m := htmlSectionRe.FindStringSubmatch(raw)
	if m == nil {
		return strings.TrimSpace(raw), ""
	}
	html = strings.TrimSpace(m[1])

	if c := cssSectionRe.FindStringSubmatch(raw); c != nil {
		css = strings.TrimSpace(c[1])
	}
	return html, css
}
