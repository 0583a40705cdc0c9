package txt2img

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"imagination/internal/domain"
)

const (
	defaultOpenAIModel = openai.CreateImageModelGptImage1
	defaultOpenAISize  = openai.CreateImageSize1024x1024
	maxDownloadBytes   = 32 << 20
)

type openAIImageClient interface {
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// OpenAIOptions controls how the OpenAI image client is configured.
type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Org        string
	Model      string
	Size       string
	HTTPClient *http.Client
}

// OpenAIGenerator calls the OpenAI images endpoint with a fixed model.
type OpenAIGenerator struct {
	client     openAIImageClient
	httpClient *http.Client
	model      string
	size       string
}

// NewOpenAIGenerator constructs a generator backed by go-openai. Callers may
// provide a nil HTTP client; one with a generous timeout is created.
func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("openai: api key is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}

	cfg := openai.DefaultConfig(key)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}
	cfg.OrgID = strings.TrimSpace(opts.Org)
	cfg.HTTPClient = httpClient

	return newOpenAIGenerator(openai.NewClientWithConfig(cfg), httpClient, opts.Model, opts.Size), nil
}

func newOpenAIGenerator(client openAIImageClient, httpClient *http.Client, model, size string) *OpenAIGenerator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultOpenAIModel
	}
	if size = strings.TrimSpace(size); size == "" {
		size = defaultOpenAISize
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIGenerator{client: client, httpClient: httpClient, model: model, size: size}
}

func (g *OpenAIGenerator) Name() string  { return ProviderOpenAI }
func (g *OpenAIGenerator) Model() string { return g.model }

// Generate issues a single image request and decodes the first returned image.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, opts Options) (Handle, error) {
	resp, err := g.client.CreateImage(ctx, g.buildRequest(prompt, opts))
	if err != nil {
		return Handle{}, fmt.Errorf("openai: create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return Handle{}, errors.New("openai: response contained no images")
	}

	data, err := g.payload(ctx, resp.Data[0])
	if err != nil {
		return Handle{}, err
	}
	img, err := decodeImage(data)
	if err != nil {
		return Handle{}, fmt.Errorf("openai: %w", err)
	}
	return Handle{Image: img, Provider: ProviderOpenAI, Model: g.model}, nil
}

func (g *OpenAIGenerator) buildRequest(prompt string, opts Options) openai.ImageRequest {
	req := openai.ImageRequest{
		Prompt: prompt,
		Model:  g.model,
		N:      1,
		Size:   g.size,
	}
	switch g.model {
	case openai.CreateImageModelDallE3:
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
		req.Quality = openai.CreateImageQualityStandard
		if opts.Quality == domain.QualityHigh {
			req.Quality = openai.CreateImageQualityHD
		}
	case openai.CreateImageModelDallE2:
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	default:
		// gpt-image models always answer with b64_json and reject response_format.
		req.Quality = string(opts.Quality)
		req.OutputFormat = openai.CreateImageOutputFormatPNG
	}
	return req
}

func (g *OpenAIGenerator) payload(ctx context.Context, item openai.ImageResponseDataInner) ([]byte, error) {
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("openai: decode b64_json: %w", err)
		}
		return data, nil
	}
	if item.URL != "" {
		return g.download(ctx, item.URL)
	}
	return nil, errors.New("openai: image entry has neither b64_json nor url")
}

func (g *OpenAIGenerator) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("openai: create download request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("openai: download image status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("openai: read image: %w", err)
	}
	return data, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
