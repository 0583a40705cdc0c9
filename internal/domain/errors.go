package domain

import "errors"

var (
	ErrInvalidPrompt   = errors.New("invalid prompt")
	ErrInvalidQuality  = errors.New("invalid quality")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrRequestInFlight = errors.New("request in flight")
	ErrProviderFailure = errors.New("provider failure")
	ErrNormalization   = errors.New("image normalization failed")
	ErrNoResult        = errors.New("no result available")
)

// GenerationFailedMessage is the only failure text shown to users. The
// underlying cause is logged, never rendered.
const GenerationFailedMessage = "Failed to generate image. Please try again. Make sure you have an active internet connection."
