package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"go.uber.org/zap"
)

const pngDataURIPrefix = "data:image/png;base64,"

// ScreenshotService 截图的保存、列举与过期清理
type ScreenshotService struct {
	dir       string
	retention time.Duration
	store     MetadataStore
	now       func() time.Time
}

func NewScreenshotService(cfg *config.ScreenshotConfig, store MetadataStore) *ScreenshotService {
	if store == nil {
		store = NopMetadataStore{}
	}
	return &ScreenshotService{
		dir:       cfg.Dir,
		retention: cfg.Retention,
		store:     store,
		now:       time.Now,
	}
}

func (s *ScreenshotService) Dir() string {
	return s.dir
}

// Save 保存 PNG data URI，返回文件名与保存时间
func (s *ScreenshotService) Save(ctx context.Context, payload string) (string, time.Time, error) {
	if !strings.HasPrefix(payload, pngDataURIPrefix) {
		return "", time.Time{}, &ValidationError{Op: "screenshot.save", Err: ErrUnsupportedFormat}
	}

	data, err := base64.StdEncoding.DecodeString(payload[len(pngDataURIPrefix):])
	if err != nil {
		return "", time.Time{}, &ValidationError{Op: "screenshot.save", Err: fmt.Errorf("%w: %v", ErrNotBase64, err)}
	}

	now := s.now()
	filename := fmt.Sprintf("screenshot_%s_%s.png", utils.GenerateID(), now.Format("20060102_150405"))
	path := filepath.Join(s.dir, filename)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", time.Time{}, fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", time.Time{}, fmt.Errorf("write screenshot: %w", err)
	}

	record := &model.ScreenshotRecord{
		Filename: filename,
		FilePath: path,
		FileSize: int64(len(data)),
		MimeType: "image/png",
	}
	if err := s.store.RecordScreenshot(ctx, record); err != nil {
		utils.Logger.Warn("failed to record screenshot metadata",
			zap.String("filename", filename), zap.Error(err))
	}

	return filename, now, nil
}

// List 列出目录中的 PNG 截图，按文件名排序
func (s *ScreenshotService) List() ([]model.ScreenshotFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.ScreenshotFile{}, nil
		}
		return nil, err
	}

	files := make([]model.ScreenshotFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, model.ScreenshotFile{
			Filename: entry.Name(),
			URL:      "/screenshots/" + entry.Name(),
			Size:     info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// Cleanup 删除超过保留期的截图；保留期为 0 时不清理
func (s *ScreenshotService) Cleanup() (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(s.dir, entry.Name())
			if err := os.Remove(path); err != nil {
				utils.Logger.Warn("failed to delete screenshot",
					zap.String("file", path), zap.Error(err))
				continue
			}
			removed++
		}
	}
	return removed, nil
}
