package txt2img

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"
	"time"

	"imagination/internal/domain"
)

const syntheticModel = "synthetic-stripes"

// SyntheticGenerator renders deterministic placeholder artwork so the studio
// stays fully operational in local and CI environments without credentials.
type SyntheticGenerator struct {
	delay time.Duration
}

// NewSyntheticGenerator returns a generator that waits delay before answering,
// mimicking the latency of a hosted provider.
func NewSyntheticGenerator(delay time.Duration) *SyntheticGenerator {
	return &SyntheticGenerator{delay: delay}
}

func (g *SyntheticGenerator) Name() string  { return ProviderSynthetic }
func (g *SyntheticGenerator) Model() string { return syntheticModel }

func (g *SyntheticGenerator) Generate(ctx context.Context, prompt string, opts Options) (Handle, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Handle{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	side := syntheticSide(opts.Quality)
	seed := deterministicSeed(prompt, opts.Quality)
	return Handle{
		Image:    renderSyntheticImage(side, side, seed),
		Provider: ProviderSynthetic,
		Model:    syntheticModel,
	}, nil
}

func syntheticSide(q domain.Quality) int {
	switch q {
	case domain.QualityLow:
		return 256
	case domain.QualityHigh:
		return 1024
	default:
		return 512
	}
}

func renderSyntheticImage(width, height int, seed string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{C: base}, image.Point{}, draw.Src)

	stripeHeight := max(16, height/12)
	for y := 0; y < height; y += stripeHeight * 2 {
		stripe := image.Rect(0, y, width, min(height, y+stripeHeight))
		draw.Draw(img, stripe, &image.Uniform{C: accent}, image.Point{}, draw.Over)
	}

	diagonal := colorFromSeed(seed, 2)
	step := max(8, width/32)
	for x := 0; x < max(width, height); x += step {
		for y := 0; y < height; y++ {
			xx := x + y
			if xx >= width {
				break
			}
			img.Set(xx, y, diagonal)
		}
	}
	return img
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if len(seed) < 6 {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	return color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

var _ Generator = (*SyntheticGenerator)(nil)
