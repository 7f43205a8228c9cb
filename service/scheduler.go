package service

import (
	"fmt"

	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// NewCleanupScheduler 按 cron 表达式定期清理过期截图，返回未启动的调度器
func NewCleanupScheduler(spec string, screenshots *ScreenshotService) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		removed, err := screenshots.Cleanup()
		if err != nil {
			utils.Logger.Warn("screenshot cleanup failed", zap.Error(err))
			return
		}
		if removed > 0 {
			utils.Logger.Info("expired screenshots removed", zap.Int("count", removed))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return c, nil
}
