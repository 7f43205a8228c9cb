package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/TIANLI0/TryOnKit/model"
	"github.com/gin-gonic/gin"
)

// StaticHandler 从单一目录提供文件，拒绝路径穿越
type StaticHandler struct {
	dir  string
	kind string
}

func NewStaticHandler(dir, kind string) *StaticHandler {
	return &StaticHandler{dir: dir, kind: kind}
}

func (h *StaticHandler) Get(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		badRequest(c, "Invalid file name")
		return
	}

	path := filepath.Join(h.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Status: model.StatusError,
			Error:  fmt.Sprintf("%s '%s' not found", h.kind, name),
		})
		return
	}

	c.File(path)
}
