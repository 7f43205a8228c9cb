package handler

import (
	"errors"
	"net/http"

	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/gin-gonic/gin"
)

// respondError 按错误类型映射状态码；内部错误只返回通用提示
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, service.ErrQueueFull):
		status = http.StatusServiceUnavailable
		message = "Server is busy, please retry later"
	case service.IsValidation(err):
		status = http.StatusBadRequest
		message = "Invalid image format"
		if errors.Is(err, service.ErrPayloadTooLarge) || errors.Is(err, service.ErrTooManyPixels) {
			status = http.StatusRequestEntityTooLarge
			message = "Image is too large"
		}
	case service.IsDecode(err):
		status = http.StatusBadRequest
		message = "Failed to decode image"
	}

	c.JSON(status, model.ErrorResponse{
		Status: model.StatusError,
		Error:  message,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Status: model.StatusError,
		Error:  message,
	})
}
