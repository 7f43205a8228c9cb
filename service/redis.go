package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/TIANLI0/TryOnKit/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const garmentKeyPrefix = "garment:"

// ResultCache 处理结果缓存
type ResultCache interface {
	GetGarmentResult(ctx context.Context, key string) (*model.GarmentResult, error)
	SetGarmentResult(ctx context.Context, key string, result *model.GarmentResult) error
}

type RedisService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisService(cfg *config.RedisConfig) *RedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisService{
		client: client,
		ttl:    cfg.TTL,
	}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// GetGarmentResult 从缓存获取处理结果，未命中返回 nil, nil
func (s *RedisService) GetGarmentResult(ctx context.Context, key string) (*model.GarmentResult, error) {
	data, err := s.client.Get(ctx, garmentKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var result model.GarmentResult
	if err := json.Unmarshal(data, &result); err != nil {
		utils.Logger.Error("failed to unmarshal garment result",
			zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return &result, nil
}

// SetGarmentResult 写入处理结果
func (s *RedisService) SetGarmentResult(ctx context.Context, key string, result *model.GarmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, garmentKeyPrefix+key, data, s.ttl).Err()
}

func (s *RedisService) Close() error {
	return s.client.Close()
}
