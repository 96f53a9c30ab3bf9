// Package media turns uploaded images into inline data URIs stored
// directly on the product or homepage document.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

const (
	ProductImageMaxBytes int64 = 1 << 20
	HeroImageMaxBytes    int64 = 2 << 20
)

var (
	ErrImageTooLarge    = errors.New("image exceeds the maximum size")
	ErrUnsupportedImage = errors.New("image must be png, jpeg or webp")
)

var allowedTypes = []string{"image/png", "image/jpeg", "image/webp"}

// EncodeDataURI reads at most maxBytes from r and returns a base64 data URI.
func EncodeDataURI(r io.Reader, maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w (%d bytes)", ErrImageTooLarge, maxBytes)
	}
	if len(data) == 0 {
		return "", ErrUnsupportedImage
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedImage, mt.String())
	}

	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
