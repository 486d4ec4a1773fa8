package preview

import (
	"regexp"
	"strings"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Clone preview</title>
<style>
%CSS%
</style>
</head>
<body>
%HTML%
</body>
</html>
`

// Document builds a standalone page from generated markup and styles. The
// markup is sanitized first.
func Document(generatedHTML, css string) (string, error) {
	body, err := Sanitize(generatedHTML, nil)
	if err != nil {
		return "", err
	}
	r := strings.NewReplacer("%CSS%", escapeStyle(css), "%HTML%", body)
	return r.Replace(documentTemplate), nil
}

var styleCloseRe = regexp.MustCompile(`(?i)</(style)`)

// escapeStyle keeps css from closing the surrounding <style> element.
func escapeStyle(css string) string {
	return styleCloseRe.ReplaceAllString(css, `<\/$1`)
}
