package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MetadataStore 外部元数据存储，处理管线本身从不读写
type MetadataStore interface {
	RecordScreenshot(ctx context.Context, record *model.ScreenshotRecord) error
	RecordJob(ctx context.Context, job *model.ProcessingJob) error
}

// NopMetadataStore 未配置数据库时使用
type NopMetadataStore struct{}

func (NopMetadataStore) RecordScreenshot(context.Context, *model.ScreenshotRecord) error { return nil }
func (NopMetadataStore) RecordJob(context.Context, *model.ProcessingJob) error          { return nil }

type GormMetadataStore struct {
	db *gorm.DB
}

// OpenMetadataStore 连接 postgres 并迁移表结构
func OpenMetadataStore(ctx context.Context, cfg *config.DatabaseConfig) (*GormMetadataStore, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access db handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store := NewGormMetadataStore(db)
	if err := store.AutoMigrate(ctx); err != nil {
		return nil, fmt.Errorf("auto migrate failed: %w", err)
	}
	return store, nil
}

func NewGormMetadataStore(db *gorm.DB) *GormMetadataStore {
	return &GormMetadataStore{db: db}
}

func (s *GormMetadataStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&model.ScreenshotRecord{},
		&model.ShirtCatalogEntry{},
		&model.ProcessingJob{},
	)
}

func (s *GormMetadataStore) RecordScreenshot(ctx context.Context, record *model.ScreenshotRecord) error {
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *GormMetadataStore) RecordJob(ctx context.Context, job *model.ProcessingJob) error {
	return s.db.WithContext(ctx).Create(job).Error
}

func (s *GormMetadataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
