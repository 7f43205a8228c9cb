package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/handler"
	"github.com/TIANLI0/TryOnKit/service"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	BuildID   = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

func main() {
	// 加载配置
	cfg, err := config.New()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := utils.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.Sync()

	utils.Logger.Info("starting TryOnKit server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("git_branch", GitBranch))

	// 确保存储目录存在
	for _, dir := range []string{cfg.Screenshot.Dir, cfg.Storage.ShirtDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			utils.Logger.Fatal("failed to create directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 初始化Redis，不可用时关闭缓存
	var cache service.ResultCache
	if cfg.Redis.Enabled {
		redisService := service.NewRedisService(&cfg.Redis)
		if err := redisService.Ping(ctx); err != nil {
			utils.Logger.Warn("redis connection failed, cache disabled", zap.Error(err))
		} else {
			utils.Logger.Info("redis connected successfully")
			cache = redisService
		}
		defer redisService.Close()
	}

	// 元数据存储（可选）
	var store service.MetadataStore = service.NopMetadataStore{}
	if cfg.Database.DSN != "" {
		gormStore, err := service.OpenMetadataStore(ctx, &cfg.Database)
		if err != nil {
			utils.Logger.Warn("metadata store unavailable", zap.Error(err))
		} else {
			utils.Logger.Info("metadata store connected")
			store = gormStore
			defer gormStore.Close()
		}
	}

	garmentService := service.NewGarmentService(cfg, cache)
	screenshotService := service.NewScreenshotService(&cfg.Screenshot, store)
	enhancer := service.NewImageEnhancer(&cfg.Pipeline, store)

	scheduler, err := service.NewCleanupScheduler(cfg.Screenshot.CleanupCron, screenshotService)
	if err != nil {
		utils.Logger.Fatal("failed to create cleanup scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	gin.SetMode(cfg.Server.Mode)

	r := handler.NewRouter(&handler.Handlers{
		Garment:         handler.NewGarmentHandler(garmentService),
		Screenshot:      handler.NewScreenshotHandler(screenshotService),
		Image:           handler.NewImageHandler(enhancer),
		Shirt:           handler.NewStaticHandler(cfg.Storage.ShirtDir, "Shirt"),
		ScreenshotFiles: handler.NewStaticHandler(cfg.Screenshot.Dir, "Screenshot"),
		Build: handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			BuildID:   BuildID,
			GitCommit: GitCommit,
			GitBranch: GitBranch,
		},
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	utils.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := serveHTTPServer(server, cfg.Server.ShutdownTimeout, nil, nil); err != nil {
		utils.Logger.Fatal("failed to start server", zap.Error(err))
	}
}

// serveHTTPServer 启动服务并在收到信号后优雅关闭；listener 与 signalCh 为 nil 时使用默认值
func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	if signalCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(ch)
		signalCh = ch
	}

	select {
	case err := <-errCh:
		return err
	case sig := <-signalCh:
		utils.Logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			return err
		}
		return <-errCh
	}
}
