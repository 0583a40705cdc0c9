// Package txt2img adapts hosted text-to-image providers to a single
// call-once contract returning an in-memory image handle.
package txt2img

import (
	"context"
	"image"

	"imagination/internal/domain"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderSynthetic = "synthetic"
)

// Options carries the per-request knobs forwarded to the provider. The
// model is fixed per Generator.
type Options struct {
	Quality domain.Quality
}

// Handle is the provider's bitmap before it is encoded for display.
type Handle struct {
	Image    image.Image
	Provider string
	Model    string
}

// Generator is the contract implemented by all image providers. Generate is
// invoked exactly once per request and must not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (Handle, error)
	Name() string
	Model() string
}

// GeneratorFunc lets tests and one-off callers use a plain function as a
// Generator.
type GeneratorFunc func(ctx context.Context, prompt string, opts Options) (Handle, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string, opts Options) (Handle, error) {
	return f(ctx, prompt, opts)
}

func (f GeneratorFunc) Name() string  { return "func" }
func (f GeneratorFunc) Model() string { return "func" }

var _ Generator = GeneratorFunc(nil)
