package txt2img

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"imagination/internal/domain"
)

const defaultGeminiImageModel = "imagen-4.0-generate-001"

type imagenModels interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// GeminiOptions controls how the Gemini (Imagen) client is configured.
type GeminiOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// GeminiGenerator renders images with an Imagen model through the genai SDK.
type GeminiGenerator struct {
	models imagenModels
	model  string
}

// NewGeminiGenerator constructs a genai client on the Gemini API backend.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions) (*GeminiGenerator, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("gemini: api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      key,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: strings.TrimSpace(opts.BaseURL)},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return newGeminiGenerator(client.Models, opts.Model), nil
}

func newGeminiGenerator(models imagenModels, model string) *GeminiGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiImageModel
	}
	return &GeminiGenerator{models: models, model: model}
}

func (g *GeminiGenerator) Name() string  { return ProviderGemini }
func (g *GeminiGenerator) Model() string { return g.model }

// Generate requests a single PNG and decodes the first unfiltered image.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts Options) (Handle, error) {
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages:   1,
		OutputMIMEType:   "image/png",
		ImageSize:        imagenSize(opts.Quality),
		IncludeRAIReason: true,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("gemini: generate images: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 {
		return Handle{}, errors.New("gemini: response contained no images")
	}

	var filtered string
	for _, generated := range resp.GeneratedImages {
		if generated == nil {
			continue
		}
		if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			if generated.RAIFilteredReason != "" {
				filtered = generated.RAIFilteredReason
			}
			continue
		}
		img, err := decodeImage(generated.Image.ImageBytes)
		if err != nil {
			return Handle{}, fmt.Errorf("gemini: %w", err)
		}
		return Handle{Image: img, Provider: ProviderGemini, Model: g.model}, nil
	}
	if filtered != "" {
		return Handle{}, fmt.Errorf("gemini: image filtered: %s", filtered)
	}
	return Handle{}, errors.New("gemini: response contained no image bytes")
}

// imagenSize maps quality tiers onto Imagen output sizes.
func imagenSize(q domain.Quality) string {
	if q == domain.QualityHigh {
		return "2K"
	}
	return "1K"
}

var _ Generator = (*GeminiGenerator)(nil)
