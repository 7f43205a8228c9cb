package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ScreenshotStore interface {
	Save(ctx context.Context, payload string) (string, time.Time, error)
	List() ([]model.ScreenshotFile, error)
}

type ScreenshotHandler struct {
	store ScreenshotStore
}

func NewScreenshotHandler(store ScreenshotStore) *ScreenshotHandler {
	return &ScreenshotHandler{store: store}
}

// Save 保存画布截图
func (h *ScreenshotHandler) Save(c *gin.Context) {
	var req model.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	filename, savedAt, err := h.store.Save(c.Request.Context(), req.Image)
	if err != nil {
		utils.Logger.Error("failed to save screenshot", zap.Error(err))
		respondError(c, err, "Failed to save screenshot")
		return
	}

	c.JSON(http.StatusOK, model.ScreenshotResponse{
		Status:    model.StatusSuccess,
		Filename:  filename,
		URL:       "/screenshots/" + filename,
		Timestamp: savedAt,
	})
}

// List 列出已保存截图
func (h *ScreenshotHandler) List(c *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		utils.Logger.Error("failed to list screenshots", zap.Error(err))
		respondError(c, err, "Failed to list screenshots")
		return
	}

	c.JSON(http.StatusOK, model.ScreenshotListResponse{
		Status:      model.StatusSuccess,
		Count:       len(files),
		Screenshots: files,
	})
}
