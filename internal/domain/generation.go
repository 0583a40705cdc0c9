package domain

import (
	"regexp"
	"strings"
	"time"
)

// GenerationRequest is issued once per accepted submission.
type GenerationRequest struct {
	Prompt  string  `json:"prompt"`
	Quality Quality `json:"quality"`
}

// NewGenerationRequest trims the prompt and validates both fields.
func NewGenerationRequest(prompt string, quality Quality) (GenerationRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GenerationRequest{}, ErrInvalidPrompt
	}
	if !quality.Valid() {
		return GenerationRequest{}, ErrInvalidQuality
	}
	return GenerationRequest{Prompt: prompt, Quality: quality}, nil
}

// GenerationResult is the normalized payload of a successful generation.
type GenerationResult struct {
	Prompt      string    `json:"prompt"`
	Quality     Quality   `json:"quality"`
	ImageBase64 string    `json:"image_base64"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filename returns the download name for the result.
func (r GenerationResult) Filename() string {
	return DownloadFilename(r.Prompt)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// DownloadFilename derives the export file name from the prompt text.
func DownloadFilename(prompt string) string {
	return "imagination-ai-" + whitespaceRun.ReplaceAllString(prompt, "-") + ".png"
}
