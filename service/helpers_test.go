package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 220, G: 20, B: 30, A: 255}
)

func fillImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// squareOnWhite 100x100 白底，(30,30)-(70,70) 红色方块
func squareOnWhite() *image.NRGBA {
	img := fillImage(100, 100, white)
	fillRect(img, image.Rect(30, 30, 70, 70), red)
	return img
}

func pngDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func jpegDataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeDataURI(t *testing.T, uri string) *image.NRGBA {
	t.Helper()
	img, err := NewDecoder(0, 0).DecodeDataURI(uri)
	require.NoError(t, err)
	return img
}

func maskFromRects(w, h int, rects ...image.Rectangle) *ForegroundMask {
	mask := NewForegroundMask(w, h)
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

func testConfig() *config.Config {
	return config.Default()
}
