package service

import (
	"fmt"
	"image"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"gocv.io/x/gocv"
)

// BackgroundSegmenter 基于浅色背景启发式规则分离前景与背景
type BackgroundSegmenter struct {
	brightnessThreshold int
	maxSaturation       int
	minValue            int
	kernelSize          int
	maxSide             int
	maskProcessor       *MaskProcessor
}

func NewBackgroundSegmenter(cfg *config.SegmenterConfig) *BackgroundSegmenter {
	return &BackgroundSegmenter{
		brightnessThreshold: cfg.BrightnessThreshold,
		maxSaturation:       cfg.MaxSaturation,
		minValue:            cfg.MinValue,
		kernelSize:          cfg.KernelSize,
		maxSide:             cfg.MaxSide,
		maskProcessor:       NewMaskProcessor(),
	}
}

// Segment 对每个像素分类，返回与源图同尺寸的前景掩码
func (s *BackgroundSegmenter) Segment(img *image.NRGBA) (*ForegroundMask, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if width <= 0 || height <= 0 {
		return nil, &ProcessingError{Op: "segmenter", Err: ErrEmptyImage}
	}

	work, scaled := s.smartResize(img)

	fg, err := s.foregroundMat(work)
	if err != nil {
		return nil, &ProcessingError{Op: "segmenter", Err: err}
	}
	defer fg.Close()

	refined := s.maskProcessor.MorphologyOptimize(&fg, s.kernelSize)
	defer refined.Close()

	final := refined
	if scaled {
		restored := gocv.NewMat()
		defer restored.Close()
		gocv.Resize(refined, &restored, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationNearestNeighbor)
		final = restored
	}

	mask, err := matToMask(&final, width, height)
	if err != nil {
		return nil, &ProcessingError{Op: "segmenter", Err: err}
	}
	return mask, nil
}

// foregroundMat 返回 CV_8U 前景掩码（255 为前景）
func (s *BackgroundSegmenter) foregroundMat(img *image.NRGBA) (gocv.Mat, error) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	if img.Stride != width*4 || img.Rect.Min != (image.Point{}) {
		img = imaging.Clone(img)
	}

	rgba, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("wrap pixels: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	lower := float64(s.brightnessThreshold + 1)
	bright := gocv.NewMat()
	defer bright.Close()
	gocv.InRangeWithScalar(bgr, gocv.NewScalar(lower, lower, lower, 0), gocv.NewScalar(255, 255, 255, 0), &bright)

	pale := gocv.NewMat()
	defer pale.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(0, 0, float64(s.minValue), 0),
		gocv.NewScalar(180, float64(s.maxSaturation), 255, 0),
		&pale)

	background := gocv.NewMat()
	defer background.Close()
	gocv.BitwiseAnd(bright, pale, &background)

	// 已抠图的透明像素一律视为背景
	channels := gocv.Split(rgba)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	transparent := gocv.NewMat()
	defer transparent.Close()
	gocv.InRangeWithScalar(channels[3], gocv.NewScalar(0, 0, 0, 0), gocv.NewScalar(0, 0, 0, 0), &transparent)

	combined := gocv.NewMat()
	defer combined.Close()
	gocv.BitwiseOr(background, transparent, &combined)

	foreground := gocv.NewMat()
	gocv.BitwiseNot(combined, &foreground)
	return foreground, nil
}

// smartResize 最长边超过上限时缩小后再分类
func (s *BackgroundSegmenter) smartResize(img *image.NRGBA) (*image.NRGBA, bool) {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	longest := max(width, height)
	if s.maxSide <= 0 || longest <= s.maxSide {
		return img, false
	}

	scale := float64(s.maxSide) / float64(longest)
	newW := max(1, int(float64(width)*scale))
	newH := max(1, int(float64(height)*scale))

	resized := resize.Resize(uint(newW), uint(newH), img, resize.Bilinear)
	return imaging.Clone(resized), true
}
