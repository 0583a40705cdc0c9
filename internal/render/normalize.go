// Package render converts provider image handles into portable base64 PNG
// payloads for display and download.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"imagination/internal/domain"
)

const dataURIPrefix = "data:image/png;base64,"

// Encoded is a normalized image ready to be embedded in a data URI.
type Encoded struct {
	Base64 string
	Width  int
	Height int
}

// maxPooledBuffer caps the capacity of buffers returned to bufferPool so a
// single large image does not pin its memory.
const maxPooledBuffer = 4 << 20

var bufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

func poolable(buf *bytes.Buffer) bool {
	return buf.Cap() <= maxPooledBuffer
}

func releaseBuffer(buf *bytes.Buffer) {
	if poolable(buf) {
		bufferPool.Put(buf)
	}
}

// Normalize renders img onto an equal-sized surface, encodes the surface as
// PNG and returns the bytes as standard base64.
func Normalize(img image.Image) (out Encoded, err error) {
	if img == nil {
		return Encoded{}, fmt.Errorf("%w: nil image", domain.ErrNormalization)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return Encoded{}, fmt.Errorf("%w: empty bounds %v", domain.ErrNormalization, bounds)
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer releaseBuffer(buf)

	defer func() {
		if r := recover(); r != nil {
			out = Encoded{}
			err = fmt.Errorf("%w: render panic: %v", domain.ErrNormalization, r)
		}
	}()

	surface := imaging.New(bounds.Dx(), bounds.Dy(), color.Transparent)
	draw.Draw(surface, surface.Bounds(), img, bounds.Min, draw.Src)
	if err := imaging.Encode(buf, surface, imaging.PNG); err != nil {
		return Encoded{}, fmt.Errorf("%w: encode png: %v", domain.ErrNormalization, err)
	}

	return Encoded{
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// DataURI embeds a base64 PNG payload in a data URI.
func DataURI(b64 string) string {
	if b64 == "" {
		return ""
	}
	return dataURIPrefix + b64
}

// DecodePNG reverses the base64 step of Normalize. A data URI prefix is
// tolerated.
func DecodePNG(b64 string) ([]byte, error) {
	b64 = strings.TrimPrefix(strings.TrimSpace(b64), dataURIPrefix)
	if b64 == "" {
		return nil, fmt.Errorf("render: empty payload")
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("render: decode base64: %w", err)
	}
	return data, nil
}
