package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

// GarmentService 衣物图片预处理：解码 → 背景分割 → 裁剪 → 锚点标注
type GarmentService struct {
	decoder      *Decoder
	segmenter    *BackgroundSegmenter
	cropper      *Cropper
	annotator    *ProportionAnnotator
	cache        ResultCache
	semaphore    chan struct{}
	queueTimeout time.Duration
}

// NewGarmentService cache 可以为 nil，表示不启用缓存
func NewGarmentService(cfg *config.Config, cache ResultCache) *GarmentService {
	return &GarmentService{
		decoder:      NewDecoder(cfg.Pipeline.MaxPayloadBytes, cfg.Pipeline.MaxPixels),
		segmenter:    NewBackgroundSegmenter(&cfg.Segmenter),
		cropper:      NewCropper(&cfg.Cropper),
		annotator:    NewProportionAnnotator(),
		cache:        cache,
		semaphore:    make(chan struct{}, max(1, cfg.Pipeline.MaxConcurrent)),
		queueTimeout: cfg.Pipeline.QueueTimeout,
	}
}

// ProcessGarmentImage 处理 data URI 形式的衣物图片。
// 要么返回完整结果，要么返回 ValidationError / DecodeError / ProcessingError 之一。
func (s *GarmentService) ProcessGarmentImage(ctx context.Context, requestID, payload string) (*model.GarmentResult, error) {
	logger := utils.WithRequest("process_garment", requestID)

	// 先校验格式，非法请求不占用处理队列
	_, raw, err := s.decoder.ParseDataURI(payload)
	if err != nil {
		logger.Info("rejected payload", zap.Error(err))
		return nil, err
	}

	cacheKey := utils.StringMD5(payload)
	if cached := s.lookupCache(ctx, logger, cacheKey); cached != nil {
		return cached, nil
	}

	if err := s.acquire(ctx); err != nil {
		logger.Warn("pipeline queue full", zap.Error(err))
		return nil, err
	}
	defer s.release()

	startTime := time.Now()
	result, err := s.run(raw)
	if err != nil {
		if IsProcessing(err) {
			logger.Error("failed to process garment", zap.Error(err))
		} else {
			logger.Info("garment payload rejected", zap.Error(err))
		}
		return nil, err
	}

	logger.Info("garment processed successfully",
		zap.Duration("duration", time.Since(startTime)),
		zap.String("original", result.Info.OriginalDimensions),
		zap.String("cropped", result.Info.CroppedDimensions),
		zap.Bool("background_removed", result.Info.BackgroundRemoved))

	if s.cache != nil {
		if err := s.cache.SetGarmentResult(ctx, cacheKey, result); err != nil {
			logger.Warn("failed to set cache", zap.Error(err))
		}
	}

	return result, nil
}

// run 依次执行各阶段，阶段内 panic 转为 ProcessingError
func (s *GarmentService) run(raw []byte) (result *model.GarmentResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ProcessingError{Op: "pipeline", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	img, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	mask, err := s.segmenter.Segment(img)
	if err != nil {
		return nil, err
	}

	crop, err := s.cropper.Crop(img, mask)
	if err != nil {
		return nil, err
	}

	cw, ch := crop.Image.Bounds().Dx(), crop.Image.Bounds().Dy()
	if cw == 0 || ch == 0 {
		return nil, &ProcessingError{Op: "pipeline", Err: ErrEmptyRegion}
	}

	encoded, err := EncodePNGDataURI(crop.Image)
	if err != nil {
		return nil, &ProcessingError{Op: "encoder", Err: err}
	}

	return &model.GarmentResult{
		Image:       encoded,
		Proportions: s.annotator.Annotate(cw, ch),
		Info: model.ProcessInfo{
			BackgroundRemoved:  crop.Found && crop.Suppressed > 0,
			Cropped:            true,
			OriginalDimensions: model.Dimensions(width, height),
			CroppedDimensions:  model.Dimensions(cw, ch),
			Region:             crop.Region,
		},
	}, nil
}

func (s *GarmentService) lookupCache(ctx context.Context, logger *zap.Logger, key string) *model.GarmentResult {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetGarmentResult(ctx, key)
	if err != nil {
		logger.Warn("failed to get cache", zap.Error(err))
		return nil
	}
	if cached != nil {
		logger.Info("cache hit", zap.String("cache_key", key))
	}
	return cached
}

// acquire 并发控制，排队超时或请求取消时返回 ErrQueueFull
func (s *GarmentService) acquire(ctx context.Context) error {
	if s.queueTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queueTimeout)
		defer cancel()
	}

	select {
	case s.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return &ProcessingError{Op: "pipeline", Err: fmt.Errorf("%w: %v", ErrQueueFull, ctx.Err())}
	}
}

func (s *GarmentService) release() {
	<-s.semaphore
}
