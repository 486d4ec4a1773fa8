package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webclone/internal/domain/entity"
)

func TestWriteCapture_WritesEachStylesheet(t *testing.T) {
	dir := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n0000")

	captured := &entity.CaptureResult{
		Screenshot: base64.StdEncoding.EncodeToString(png),
		HTML:       `<link href="./style0.css"><link href="./style2.css">`,
		CSS:        "a{}\nb{}",
		Layout:     &entity.LayoutSummary{},
		Stylesheets: []entity.Stylesheet{
			{Href: "https://example.com/a.css", LocalName: "./style0.css", CSS: "a{}"},
			{Href: "https://example.com/b.css", LocalName: "./style2.css", CSS: "b{}"},
		},
	}

	require.NoError(t, writeCapture(dir, captured))

	for name, want := range map[string]string{
		"style0.css": "a{}",
		"style2.css": "b{}",
		"styles.css": "a{}\nb{}",
		"page.html":  captured.HTML,
	} {
		got, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, want, string(got), name)
	}

	_, err := os.Stat(filepath.Join(dir, "screenshot.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "layout.json"))
	assert.NoError(t, err)
}

func TestWriteCapture_BadScreenshot(t *testing.T) {
	err := writeCapture(t.TempDir(), &entity.CaptureResult{Screenshot: "%%%"})
	assert.ErrorContains(t, err, "decode screenshot")
}
