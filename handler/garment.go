package handler

import (
	"context"
	"net/http"

	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/gin-gonic/gin"
)

type GarmentProcessor interface {
	ProcessGarmentImage(ctx context.Context, requestID, payload string) (*model.GarmentResult, error)
}

type GarmentHandler struct {
	processor GarmentProcessor
}

func NewGarmentHandler(processor GarmentProcessor) *GarmentHandler {
	return &GarmentHandler{processor: processor}
}

// ProcessShirt 去背景、裁剪并返回锚点
func (h *GarmentHandler) ProcessShirt(c *gin.Context) {
	var req model.ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.processor.ProcessGarmentImage(c.Request.Context(), c.GetString(middleware.RequestIDKey), req.Image)
	if err != nil {
		respondError(c, err, "Failed to process shirt")
		return
	}

	c.JSON(http.StatusOK, model.GarmentResponse{
		Status:      model.StatusSuccess,
		Image:       result.Image,
		Proportions: result.Proportions,
		Info:        result.Info,
	})
}
