package model

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ImageRequest 携带 data URI 的请求体
type ImageRequest struct {
	Image string `json:"image"`
	Type  string `json:"type,omitempty"`
}

// GarmentResponse POST /process-shirt 响应
type GarmentResponse struct {
	Status      string           `json:"status"`
	Image       string           `json:"image"`
	Proportions ShirtProportions `json:"proportions"`
	Info        ProcessInfo      `json:"info"`
}

// ScreenshotResponse 截图保存响应
type ScreenshotResponse struct {
	Status    string    `json:"status"`
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// ScreenshotFile 截图列表项
type ScreenshotFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

// ScreenshotListResponse 截图列表响应
type ScreenshotListResponse struct {
	Status      string           `json:"status"`
	Count       int              `json:"count"`
	Screenshots []ScreenshotFile `json:"screenshots"`
}

// ProcessImageResponse 图像滤镜响应
type ProcessImageResponse struct {
	Status         string `json:"status"`
	Image          string `json:"image"`
	ProcessingType string `json:"processing_type"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
