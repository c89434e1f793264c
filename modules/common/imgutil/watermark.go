package imgutil

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // GIF 디코더 등록
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp" // WebP 디코더 등록

	"aplus-content-server/modules/common/fallback"
)

// WatermarkConfig - 워터마크 렌더링 설정 (고정 상수, 호스트에서 override 가능)
type WatermarkConfig struct {
	Text    string
	Opacity float64 // 0.0 ~ 1.0
	Padding int     // 우측/하단 여백 (px)
	Scale   int     // 글리프 확대 배율 (기본 폰트 13px 기준)
}

// ApplyWatermark - 생성된 이미지에 워터마크를 그려 data URI로 반환
// 절대 실패하지 않음: 디코드 불가면 placeholder, 인코드 불가면 원본 그대로 반환
func ApplyWatermark(raw []byte, cfg WatermarkConfig) string {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Printf("⚠️ [Watermark] Failed to decode image (%d bytes): %v, using placeholder", len(raw), err)
		return fallback.PlaceholderDataURI()
	}

	bounds := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, bounds.Min, draw.Src)

	label := renderLabel(cfg)
	if label != nil {
		lb := label.Bounds()
		x := canvas.Bounds().Dx() - cfg.Padding - lb.Dx()
		y := canvas.Bounds().Dy() - cfg.Padding - lb.Dy()
		draw.Draw(canvas, image.Rect(x, y, x+lb.Dx(), y+lb.Dy()), label, image.Point{}, draw.Over)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		log.Printf("⚠️ [Watermark] Failed to encode watermarked image: %v, returning original", err)
		return DataURI("image/"+format, raw)
	}

	return DataURI("image/png", buf.Bytes())
}

// renderLabel - 워터마크 문자열을 반투명 흰색으로 렌더링
func renderLabel(cfg WatermarkConfig) *image.RGBA {
	if cfg.Text == "" {
		return nil
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, cfg.Text).Ceil()
	height := face.Height
	if width <= 0 {
		return nil
	}

	opacity := cfg.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	label := image.NewRGBA(image.Rect(0, 0, width, height))
	drawer := &font.Drawer{
		Dst:  label,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: uint8(opacity * 255)}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	drawer.DrawString(cfg.Text)

	if cfg.Scale <= 1 {
		return label
	}
	return scaleNearest(label, width*cfg.Scale, height*cfg.Scale)
}

// scaleNearest - Nearest Neighbor 방식으로 이미지 확대/축소
func scaleNearest(src image.Image, targetWidth, targetHeight int) *image.RGBA {
	srcBounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))

	scaleX := float64(srcBounds.Dx()) / float64(targetWidth)
	scaleY := float64(srcBounds.Dy()) / float64(targetHeight)

	for y := 0; y < targetHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			srcX := srcBounds.Min.X + int(float64(x)*scaleX)
			srcY := srcBounds.Min.Y + int(float64(y)*scaleY)
			dst.Set(x, y, src.At(srcX, srcY))
		}
	}

	return dst
}

// DataURI - 이미지 바이너리를 data URI로 변환
func DataURI(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
