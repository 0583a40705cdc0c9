package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"imagination/internal/domain"
)

const (
	ProviderAuto      = "auto"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderSynthetic = "synthetic"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DataDir            string
	CORSAllowedOrigins []string
	ImageProvider      string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIOrg          string
	OpenAIImageModel   string
	OpenAIImageSize    string
	GeminiAPIKey       string
	GeminiBaseURL      string
	GeminiImageModel   string
	SyntheticDelay     time.Duration
	GenerationTimeout  time.Duration
	DefaultQuality     domain.Quality
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DataDir:            getEnv("DATA_DIR", "./data"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		ImageProvider:      strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderAuto)),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		OpenAIImageModel:   getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIImageSize:    getEnv("OPENAI_IMAGE_SIZE", "1024x1024"),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL:      os.Getenv("GEMINI_BASE_URL"),
		GeminiImageModel:   getEnv("GEMINI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		SyntheticDelay:     time.Millisecond * time.Duration(getEnvInt("SYNTHETIC_DELAY_MS", 1500)),
		GenerationTimeout:  time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 120)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 180)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	quality, err := domain.ParseQuality(os.Getenv("DEFAULT_QUALITY"))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_QUALITY: %w", err)
	}
	cfg.DefaultQuality = quality

	if cfg.ImageProvider == ProviderAuto {
		cfg.ImageProvider = cfg.detectProvider()
	}
	switch cfg.ImageProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for IMAGE_PROVIDER=openai")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for IMAGE_PROVIDER=gemini")
		}
	case ProviderSynthetic:
	default:
		return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q", cfg.ImageProvider)
	}

	if cfg.GenerationTimeout <= 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

func (c *Config) detectProvider() string {
	switch {
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	case c.GeminiAPIKey != "":
		return ProviderGemini
	default:
		return ProviderSynthetic
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
