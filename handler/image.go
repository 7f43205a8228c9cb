package handler

import (
	"context"
	"net/http"

	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImageProcessor interface {
	Process(ctx context.Context, requestID, payload, processingType string) (string, error)
}

type ImageHandler struct {
	processor ImageProcessor
}

func NewImageHandler(processor ImageProcessor) *ImageHandler {
	return &ImageHandler{processor: processor}
}

// Process 通用滤镜：enhance / brightness
func (h *ImageHandler) Process(c *gin.Context) {
	var req model.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if req.Type == "" {
		req.Type = service.ProcessingEnhance
	}

	out, err := h.processor.Process(c.Request.Context(), c.GetString(middleware.RequestIDKey), req.Image, req.Type)
	if err != nil {
		utils.Logger.Error("failed to process image",
			zap.String("type", req.Type), zap.Error(err))
		respondError(c, err, "Failed to process image")
		return
	}

	c.JSON(http.StatusOK, model.ProcessImageResponse{
		Status:         model.StatusSuccess,
		Image:          out,
		ProcessingType: req.Type,
	})
}
