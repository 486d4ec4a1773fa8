package entity

import "errors"

var (
	ErrInvalidURL         = errors.New("invalid URL")
	ErrMissingInput       = errors.New("missing layout or screenshot")
	ErrMissingCredential  = errors.New("missing OpenAI API key")
	ErrEmptyContent       = errors.New("page content is empty or failed to load")
	ErrNavigationTimeout  = errors.New("navigation timed out")
	ErrNetworkIdleTimeout = errors.New("network did not become idle")
)

// ProviderError carries the message the LLM provider returned, so callers can
// surface it verbatim.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
