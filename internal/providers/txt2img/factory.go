package txt2img

import (
	"context"
	"fmt"

	"imagination/internal/infra"
)

// FromConfig builds the generator selected by cfg.ImageProvider.
func FromConfig(ctx context.Context, cfg *infra.Config) (Generator, error) {
	switch cfg.ImageProvider {
	case infra.ProviderOpenAI:
		return NewOpenAIGenerator(OpenAIOptions{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Org:     cfg.OpenAIOrg,
			Model:   cfg.OpenAIImageModel,
			Size:    cfg.OpenAIImageSize,
		})
	case infra.ProviderGemini:
		return NewGeminiGenerator(ctx, GeminiOptions{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiImageModel,
		})
	case infra.ProviderSynthetic:
		return NewSyntheticGenerator(cfg.SyntheticDelay), nil
	default:
		return nil, fmt.Errorf("txt2img: unsupported provider %q", cfg.ImageProvider)
	}
}
