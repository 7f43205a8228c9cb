package handler

import (
	"net/http"

	"github.com/TIANLI0/TryOnKit/middleware"
	"github.com/gin-gonic/gin"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string
	BuildTime string
	BuildID   string
	GitCommit string
	GitBranch string
}

type Handlers struct {
	Garment         *GarmentHandler
	Screenshot      *ScreenshotHandler
	Image           *ImageHandler
	Shirt           *StaticHandler
	ScreenshotFiles *StaticHandler
	Build           BuildInfo
}

// NewRouter 注册全部路由
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Virtual Try-On Backend",
			"version": h.Build.Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    h.Build.Version,
			"build_time": h.Build.BuildTime,
			"build_id":   h.Build.BuildID,
			"git_commit": h.Build.GitCommit,
			"git_branch": h.Build.GitBranch,
		})
	})

	r.POST("/process-shirt", h.Garment.ProcessShirt)
	r.POST("/process-image", h.Image.Process)
	r.POST("/screenshot", h.Screenshot.Save)
	r.GET("/screenshots", h.Screenshot.List)
	r.GET("/screenshots/:name", h.ScreenshotFiles.Get)
	r.GET("/shirts/:name", h.Shirt.Get)

	return r
}
