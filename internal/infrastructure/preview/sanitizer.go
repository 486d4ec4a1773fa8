package preview

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type SanitizeConfig struct {
	TagsToRemove []string
	// URLAttrs are checked for javascript: targets.
	URLAttrs         []string
	CustomAttrFilter func(attr html.Attribute) bool
}

var DefaultSanitizeConfig = SanitizeConfig{
	TagsToRemove: []string{"script", "iframe", "object", "embed", "frame", "frameset", "base"},
	URLAttrs:     []string{"href", "src", "action", "formaction", "xlink:href", "poster", "data"},
}

// Sanitize parses generated markup as body content and strips anything that
// executes code. Layout markup, classes and ids survive.
func Sanitize(raw string, cfg *SanitizeConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultSanitizeConfig
	}

	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), parent)
	if err != nil {
		return "", fmt.Errorf("parse generated html: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		if removeNode(n, cfg) {
			continue
		}
		cleanNode(n, cfg)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render generated html: %w", err)
		}
	}
	return sb.String(), nil
}

func removeNode(n *html.Node, cfg *SanitizeConfig) bool {
	return n.Type == html.ElementNode && isOneOf(strings.ToLower(n.Data), cfg.TagsToRemove...)
}

func cleanNode(n *html.Node, cfg *SanitizeConfig) {
	if n.Type != html.ElementNode {
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if removeNode(c, cfg) {
			n.RemoveChild(c)
		} else {
			cleanNode(c, cfg)
		}
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *SanitizeConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if shouldRemoveAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(attr html.Attribute, cfg *SanitizeConfig) bool {
	key := strings.ToLower(attr.Key)
	if attr.Namespace != "" {
		key = strings.ToLower(attr.Namespace) + ":" + key
	}
	if strings.HasPrefix(key, "on") {
		return true
	}
	if isOneOf(key, cfg.URLAttrs...) && isScriptURL(attr.Val) {
		return true
	}
	if cfg.CustomAttrFilter != nil && cfg.CustomAttrFilter(attr) {
		return true
	}
	return false
}

// isScriptURL reports whether v targets javascript: or vbscript:, ignoring
// the whitespace and control characters browsers skip when parsing schemes.
func isScriptURL(v string) bool {
	var b strings.Builder
	for _, r := range v {
		if r <= ' ' {
			continue
		}
		b.WriteRune(r)
	}
	s := strings.ToLower(b.String())
	return strings.HasPrefix(s, "javascript:") || strings.HasPrefix(s, "vbscript:")
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
