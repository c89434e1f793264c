package fallback

import (
	"encoding/base64"
	"log"
)

const transparentPixelBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMB/6X+ZQAAAABJRU5ErkJggg=="

var transparentPixelBytes []byte

func init() {
	data, err := base64.StdEncoding.DecodeString(transparentPixelBase64)
	if err != nil {
		log.Printf("⚠️ Failed to decode placeholder pixel: %v", err)
		return
	}
	transparentPixelBytes = data
}

// PlaceholderBase64 returns a 1x1 transparent PNG in base64 for slots that have no usable image.
func PlaceholderBase64() string {
	return transparentPixelBase64
}

// PlaceholderBytes returns a copy of the transparent PNG bytes.
func PlaceholderBytes() []byte {
	if len(transparentPixelBytes) == 0 {
		return []byte{}
	}
	out := make([]byte, len(transparentPixelBytes))
	copy(out, transparentPixelBytes)
	return out
}

// PlaceholderDataURI returns the transparent pixel as an embeddable data URI.
// Used when a generated payload cannot be decoded at all.
func PlaceholderDataURI() string {
	return "data:image/png;base64," + transparentPixelBase64
}

// IsPlaceholder reports whether src is the placeholder data URI.
func IsPlaceholder(src string) bool {
	return src == PlaceholderDataURI()
}
