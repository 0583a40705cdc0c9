package domain

import (
	"fmt"
	"strings"
)

// Quality is the generation-fidelity tier forwarded to the provider.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"

	DefaultQuality = QualityMedium
)

// Qualities lists the supported tiers in display order.
var Qualities = []Quality{QualityLow, QualityMedium, QualityHigh}

// ParseQuality accepts free-form input such as " High ". An empty value
// yields DefaultQuality.
func ParseQuality(raw string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(raw))); q {
	case "":
		return DefaultQuality, nil
	case QualityLow, QualityMedium, QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidQuality, raw)
	}
}

func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh:
		return true
	}
	return false
}

func (q Quality) String() string {
	return string(q)
}
