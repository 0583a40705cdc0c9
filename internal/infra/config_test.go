package infra

import (
	"testing"
	"time"

	"imagination/internal/domain"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"IMAGE_PROVIDER", "OPENAI_API_KEY", "GEMINI_API_KEY", "DEFAULT_QUALITY", "GENERATION_TIMEOUT_SECONDS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaultsToSyntheticProvider(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ImageProvider != ProviderSynthetic {
		t.Fatalf("ImageProvider mismatch: got %q want %q", cfg.ImageProvider, ProviderSynthetic)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.DefaultQuality != domain.QualityMedium {
		t.Fatalf("DefaultQuality mismatch: got %q", cfg.DefaultQuality)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Fatalf("GenerationTimeout mismatch: got %s", cfg.GenerationTimeout)
	}
	if cfg.OpenAIImageModel != "gpt-image-1" {
		t.Fatalf("OpenAIImageModel mismatch: got %q", cfg.OpenAIImageModel)
	}
}

func TestLoadConfigAutoDetectsProvider(t *testing.T) {
	tests := []struct {
		name   string
		openai string
		gemini string
		want   string
	}{
		{name: "openai wins", openai: "sk-test", gemini: "g-test", want: ProviderOpenAI},
		{name: "gemini only", gemini: "g-test", want: ProviderGemini},
		{name: "no keys", want: ProviderSynthetic},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearProviderEnv(t)
			t.Setenv("OPENAI_API_KEY", tc.openai)
			t.Setenv("GEMINI_API_KEY", tc.gemini)

			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig returned error: %v", err)
			}
			if cfg.ImageProvider != tc.want {
				t.Fatalf("ImageProvider = %q, want %q", cfg.ImageProvider, tc.want)
			}
		})
	}
}

func TestLoadConfigRejectsProviderWithoutKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("IMAGE_PROVIDER", "openai")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for openai provider without key")
	}

	t.Setenv("IMAGE_PROVIDER", "gemini")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for gemini provider without key")
	}

	t.Setenv("IMAGE_PROVIDER", "midjourney")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unsupported provider")
	}
}

func TestLoadConfigParsesQualityAndOrigins(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("DEFAULT_QUALITY", " HIGH ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DefaultQuality != domain.QualityHigh {
		t.Fatalf("DefaultQuality = %q, want high", cfg.DefaultQuality)
	}
	expected := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}

	t.Setenv("DEFAULT_QUALITY", "ultra")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for invalid DEFAULT_QUALITY")
	}
}
