package output

// ScreenshotPreparer shrinks a base64 screenshot before it is sent to the
// model. It returns the (possibly unchanged) base64 payload and its MIME type.
type ScreenshotPreparer interface {
	Prepare(b64 string) (string, string, error)
}
