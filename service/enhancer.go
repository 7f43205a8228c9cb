package service

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	ProcessingEnhance    = "enhance"
	ProcessingBrightness = "brightness"

	sharpnessFactor  = 1.5
	brightnessFactor = 1.1
)

// smoothKernel 3x3 平滑核，中心权重 5
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// ImageEnhancer 通用图像滤镜，与衣物管线无关
type ImageEnhancer struct {
	decoder *Decoder
	store   MetadataStore
}

func NewImageEnhancer(cfg *config.PipelineConfig, store MetadataStore) *ImageEnhancer {
	if store == nil {
		store = NopMetadataStore{}
	}
	return &ImageEnhancer{
		decoder: NewDecoder(cfg.MaxPayloadBytes, cfg.MaxPixels),
		store:   store,
	}
}

// Process 仅接受 PNG data URI；enhance 锐度提升 1.5 倍，brightness 各通道乘以 1.1，其余类型原样返回
func (e *ImageEnhancer) Process(ctx context.Context, requestID, payload, processingType string) (string, error) {
	start := time.Now()
	out, err := e.process(payload, processingType)
	e.recordJob(ctx, requestID, processingType, start, err)
	return out, err
}

func (e *ImageEnhancer) process(payload, processingType string) (string, error) {
	subtype, raw, err := e.decoder.ParseDataURI(payload)
	if err != nil {
		return "", err
	}
	if subtype != "png" {
		return "", &ValidationError{Op: "enhancer", Err: ErrUnsupportedFormat}
	}

	img, err := e.decoder.Decode(raw)
	if err != nil {
		return "", err
	}

	var processed = img
	switch processingType {
	case ProcessingEnhance:
		processed = sharpness(img, sharpnessFactor)
	case ProcessingBrightness:
		processed = brightness(img, brightnessFactor)
	}

	encoded, err := EncodePNGDataURI(processed)
	if err != nil {
		return "", &ProcessingError{Op: "enhancer", Err: err}
	}
	return encoded, nil
}

func (e *ImageEnhancer) recordJob(ctx context.Context, requestID, processingType string, start time.Time, procErr error) {
	completed := time.Now()
	job := &model.ProcessingJob{
		RequestID:      requestID,
		ProcessingType: processingType,
		Status:         model.JobStatusCompleted,
		ProcessingTime: completed.Sub(start).Seconds(),
		CompletedAt:    &completed,
	}
	if procErr != nil {
		msg := procErr.Error()
		job.Status = model.JobStatusFailed
		job.ErrorMessage = &msg
	}
	if err := e.store.RecordJob(ctx, job); err != nil {
		utils.Logger.Warn("failed to record processing job",
			zap.String("request_id", requestID), zap.Error(err))
	}
}

// brightness 各颜色通道按比例缩放，alpha 不变
func brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: blendChannel(0, c.R, factor),
			G: blendChannel(0, c.G, factor),
			B: blendChannel(0, c.B, factor),
			A: c.A,
		}
	})
}

// sharpness 以平滑图为基准外推：out = smooth + factor*(src-smooth)。
// 边缘一圈像素不参与平滑，保持原值。
func sharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	smooth := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	out := imaging.Clone(img)

	w, h := out.Bounds().Dx(), out.Bounds().Dy()
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*out.Stride + x*4
			j := y*smooth.Stride + x*4
			for c := 0; c < 3; c++ {
				out.Pix[i+c] = blendChannel(smooth.Pix[j+c], out.Pix[i+c], factor)
			}
		}
	}
	return out
}

// blendChannel base + factor*(v-base)，截断到 0~255
func blendChannel(base, v uint8, factor float64) uint8 {
	f := float64(base) + factor*(float64(v)-float64(base))
	switch {
	case f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	return uint8(f)
}
