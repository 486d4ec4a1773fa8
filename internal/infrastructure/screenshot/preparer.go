package screenshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"webclone/internal/application/port/output"

	"github.com/disintegration/imaging"
)

var _ output.ScreenshotPreparer = (*Resizer)(nil)

const (
	DefaultMaxWidth = 1024
	fallbackMime    = "image/png"
)

// Resizer scales screenshots down to MaxWidth before they are sent to the
// model. A MaxWidth of zero disables resizing. Input that cannot be decoded
// as an image is passed through untouched and labelled as PNG.
type Resizer struct {
	MaxWidth int
}

func NewResizer(maxWidth int) *Resizer {
	if maxWidth < 0 {
		maxWidth = 0
	}
	return &Resizer{MaxWidth: maxWidth}
}

func (r *Resizer) Prepare(b64 string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return b64, fallbackMime, nil
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return b64, fallbackMime, nil
	}
	mime := "image/" + format

	if r.MaxWidth == 0 || img.Bounds().Dx() <= r.MaxWidth {
		return b64, mime, nil
	}

	img = imaging.Resize(img, r.MaxWidth, 0, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return "", "", fmt.Errorf("png encode failed: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png", nil
}
