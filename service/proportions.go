package service

import (
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

// standardProportions 标准T恤轮廓模板。下游对齐逻辑依赖这些常量，不随输入变化。
var standardProportions = model.ShirtProportions{
	NecklineCenter:        model.Point{X: 0.50, Y: 0.12},
	LeftShoulder:          model.Point{X: 0.20, Y: 0.28},
	RightShoulder:         model.Point{X: 0.80, Y: 0.28},
	ShirtWidthAtShoulders: 0.60,
	ShirtHeightRatio:      0.75,
}

// ProportionAnnotator 为裁剪结果附加固定锚点
type ProportionAnnotator struct{}

func NewProportionAnnotator() *ProportionAnnotator {
	return &ProportionAnnotator{}
}

// Annotate 返回模板副本，尺寸仅用于日志
func (a *ProportionAnnotator) Annotate(width, height int) model.ShirtProportions {
	utils.Logger.Debug("annotating proportions",
		zap.Int("width", width),
		zap.Int("height", height))
	return standardProportions
}
