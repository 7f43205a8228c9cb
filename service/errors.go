package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingPrefix     = errors.New("payload is not a data:image URI")
	ErrNotBase64         = errors.New("data URI is not base64 encoded")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrTooManyPixels     = errors.New("image dimensions exceed pixel limit")
	ErrEmptyImage        = errors.New("image has no pixels")
	ErrEmptyRegion       = errors.New("crop region is empty")
	ErrQueueFull         = errors.New("processing queue is full")
)

// ValidationError 请求载荷格式不合法
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid payload: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DecodeError 载荷可解析为字节，但无法解码为图像
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode failed: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProcessingError 处理阶段内部失败
type ProcessingError struct {
	Op  string
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s: processing failed: %v", e.Op, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

func IsProcessing(err error) bool {
	var target *ProcessingError
	return errors.As(err, &target)
}
