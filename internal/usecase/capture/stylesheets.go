package capture

import (
	"context"
	"fmt"
	"strings"

	"webclone/internal/application/port/output"
	"webclone/internal/domain/entity"
)

// embedStylesheets downloads every linked stylesheet and points the HTML at a
// local copy. The rewrite is a plain textual replace of the URL across the
// whole document, not only inside <link> tags. Failed downloads are skipped
// and leave the HTML untouched.
func (uc *UseCase) embedStylesheets(ctx context.Context, html string, links []string, log output.LoggerPort) (string, string, []entity.Stylesheet) {
	var css strings.Builder
	var sheets []entity.Stylesheet

	for i, href := range links {
		if href == "" {
			continue
		}
		text, err := uc.stylesheets.Fetch(ctx, href)
		if err != nil {
			log.Debug("Stylesheet skipped", "href", href, "error", err)
			continue
		}

		css.WriteString("\n/* ")
		css.WriteString(href)
		css.WriteString(" */\n")
		css.WriteString(text)
		css.WriteString("\n")

		local := LocalStylesheetName(i)
		html = strings.ReplaceAll(html, href, local)
		sheets = append(sheets, entity.Stylesheet{Href: href, LocalName: local, CSS: text})
	}

	log.Debug("Stylesheets embedded", "found", len(links), "embedded", len(sheets))
	return html, css.String(), sheets
}

func LocalStylesheetName(index int) string {
	return fmt.Sprintf("./style%d.css", index)
}
