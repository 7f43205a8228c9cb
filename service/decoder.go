package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const dataURIPrefix = "data:image/"

var supportedSubtypes = map[string]bool{
	"png":  true,
	"jpeg": true,
	"jpg":  true,
	"webp": true,
	"gif":  true,
}

// Decoder 负责 data URI 解析与图像解码
type Decoder struct {
	maxPayloadBytes int
	maxPixels       int
}

// NewDecoder 限制为 0 表示不限制
func NewDecoder(maxPayloadBytes, maxPixels int) *Decoder {
	return &Decoder{maxPayloadBytes: maxPayloadBytes, maxPixels: maxPixels}
}

// ParseDataURI 校验 data:image/<subtype>;base64,<data> 并返回子类型与原始字节
func (d *Decoder) ParseDataURI(payload string) (string, []byte, error) {
	if !strings.HasPrefix(payload, dataURIPrefix) {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: ErrMissingPrefix}
	}

	header, data, found := strings.Cut(payload[len(dataURIPrefix):], ",")
	if !found {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: ErrNotBase64}
	}
	subtype, encoding, found := strings.Cut(header, ";")
	if !found || encoding != "base64" {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: ErrNotBase64}
	}

	subtype = strings.ToLower(subtype)
	if !supportedSubtypes[subtype] {
		return "", nil, &ValidationError{
			Op:  "decoder.parse",
			Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, subtype),
		}
	}

	// 限制针对解码后的字节数；先按编码长度粗略拦截，避免为超大载荷分配内存
	if d.maxPayloadBytes > 0 && base64.StdEncoding.DecodedLen(len(data))-2 > d.maxPayloadBytes {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: ErrPayloadTooLarge}
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: fmt.Errorf("%w: %v", ErrNotBase64, err)}
	}
	if d.maxPayloadBytes > 0 && len(raw) > d.maxPayloadBytes {
		return "", nil, &ValidationError{Op: "decoder.parse", Err: ErrPayloadTooLarge}
	}

	return subtype, raw, nil
}

// Decode 解码图像并统一为 NRGBA；无透明通道的源图 alpha 填充为 255。
// 解码前先读取头部尺寸，像素数超限时返回 ValidationError。
func (d *Decoder) Decode(data []byte) (*image.NRGBA, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Op: "decoder.decode", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, &DecodeError{Op: "decoder.decode", Err: ErrEmptyImage}
	}
	if d.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(d.maxPixels) {
		return nil, &ValidationError{
			Op:  "decoder.decode",
			Err: fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height),
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Op: "decoder.decode", Err: err}
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Op: "decoder.decode", Err: ErrEmptyImage}
	}

	return imaging.Clone(img), nil
}

// DecodeDataURI 解析并解码 data URI
func (d *Decoder) DecodeDataURI(payload string) (*image.NRGBA, error) {
	_, raw, err := d.ParseDataURI(payload)
	if err != nil {
		return nil, err
	}
	return d.Decode(raw)
}

// EncodePNGDataURI 将图像编码为 PNG data URI
func EncodePNGDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
