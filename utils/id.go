package utils

import (
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
)

// GenerateID 生成可按时间排序的文件ID
func GenerateID() string {
	return ksuid.New().String()
}

// RequestID 生成请求ID
func RequestID() string {
	return uuid.NewString()
}
