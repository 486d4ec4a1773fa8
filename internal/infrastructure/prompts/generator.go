package prompts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"webclone/internal/domain/entity"
)

type ClonePromptData struct {
	Layout string
}

// GenerateClonePrompt renders baseTemplate with the layout serialized as
// indented JSON.
func GenerateClonePrompt(baseTemplate string, layout *entity.LayoutSummary) (string, error) {
	if layout == nil {
		layout = &entity.LayoutSummary{}
	}
	var encoded bytes.Buffer
	enc := json.NewEncoder(&encoded)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(layout)); err != nil {
		return "", fmt.Errorf("encode layout: %w", err)
	}

	tmpl, err := template.New("clone").Option("missingkey=error").Parse(baseTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, ClonePromptData{Layout: strings.TrimRight(encoded.String(), "\n")}); err != nil {
		return "", err
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}

// normalize replaces nil categories with empty slices so the model always
// sees arrays, never null.
func normalize(l *entity.LayoutSummary) *entity.LayoutSummary {
	out := *l
	for _, s := range []*[]entity.ElementSnapshot{&out.Navs, &out.Sections, &out.Buttons, &out.Headings, &out.TextBlocks} {
		if *s == nil {
			*s = []entity.ElementSnapshot{}
		}
	}
	return &out
}
