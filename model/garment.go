package model

import "fmt"

// Point 归一化坐标，相对裁剪后图像的宽高，取值 0~1
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShirtProportions 标准T恤轮廓的锚点模板
type ShirtProportions struct {
	NecklineCenter        Point   `json:"neckline_center"`
	LeftShoulder          Point   `json:"left_shoulder"`
	RightShoulder         Point   `json:"right_shoulder"`
	ShirtWidthAtShoulders float64 `json:"shirt_width_at_shoulders"`
	ShirtHeightRatio      float64 `json:"shirt_height_ratio"`
}

// BoundingRegion 前景边界框，源图像素坐标
type BoundingRegion struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ProcessInfo 处理过程信息
type ProcessInfo struct {
	BackgroundRemoved  bool           `json:"background_removed"`
	Cropped            bool           `json:"cropped"`
	OriginalDimensions string         `json:"original_dimensions"`
	CroppedDimensions  string         `json:"cropped_dimensions"`
	Region             BoundingRegion `json:"region"`
}

// GarmentResult 衣物预处理结果
type GarmentResult struct {
	Image       string           `json:"image"`
	Proportions ShirtProportions `json:"proportions"`
	Info        ProcessInfo      `json:"info"`
}

// Dimensions 格式化为 "WxH"
func Dimensions(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}
