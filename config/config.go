package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Segmenter  SegmenterConfig  `mapstructure:"segmenter"`
	Cropper    CropperConfig    `mapstructure:"cropper"`
	Screenshot ScreenshotConfig `mapstructure:"screenshot"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type PipelineConfig struct {
	MaxPayloadBytes int           `mapstructure:"max_payload_bytes"`
	MaxPixels       int           `mapstructure:"max_pixels"`
	MaxConcurrent   int           `mapstructure:"max_concurrent"`
	QueueTimeout    time.Duration `mapstructure:"queue_timeout"`
}

type SegmenterConfig struct {
	BrightnessThreshold int `mapstructure:"brightness_threshold"`
	MaxSaturation       int `mapstructure:"max_saturation"`
	MinValue            int `mapstructure:"min_value"`
	KernelSize          int `mapstructure:"kernel_size"`
	MaxSide             int `mapstructure:"max_side"`
}

type CropperConfig struct {
	Padding int `mapstructure:"padding"`
}

type ScreenshotConfig struct {
	Dir         string        `mapstructure:"dir"`
	Retention   time.Duration `mapstructure:"retention"`
	CleanupCron string        `mapstructure:"cleanup_cron"`
}

type StorageConfig struct {
	ShirtDir string `mapstructure:"shirt_dir"`
}

// Load 从 YAML 文件加载配置，环境变量 TRYON_* 覆盖文件中的值
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("tryon")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// 配置文件缺失时仅使用默认值与环境变量
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() (*Config, error) {
	return Load("config.yaml")
}

// Validate 校验配置取值
func (c *Config) Validate() error {
	if c.Pipeline.MaxConcurrent < 1 {
		return errors.New("pipeline.max_concurrent must be positive")
	}
	if c.Pipeline.MaxPayloadBytes < 1 {
		return errors.New("pipeline.max_payload_bytes must be positive")
	}
	if c.Pipeline.MaxPixels < 1 {
		return errors.New("pipeline.max_pixels must be positive")
	}
	for name, val := range map[string]int{
		"segmenter.brightness_threshold": c.Segmenter.BrightnessThreshold,
		"segmenter.max_saturation":       c.Segmenter.MaxSaturation,
		"segmenter.min_value":            c.Segmenter.MinValue,
	} {
		if val < 0 || val > 255 {
			return fmt.Errorf("%s must be between 0 and 255", name)
		}
	}
	if c.Segmenter.KernelSize < 0 {
		return errors.New("segmenter.kernel_size must not be negative")
	}
	if c.Cropper.Padding < 0 {
		return errors.New("cropper.padding must not be negative")
	}
	if c.Screenshot.Retention < 0 {
		return errors.New("screenshot.retention must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := getDefaultConfig()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("redis.enabled", d.Redis.Enabled)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.password", d.Redis.Password)
	v.SetDefault("redis.db", d.Redis.DB)
	v.SetDefault("redis.ttl", d.Redis.TTL)

	v.SetDefault("database.dsn", d.Database.DSN)
	v.SetDefault("database.max_idle_conns", d.Database.MaxIdleConns)
	v.SetDefault("database.max_open_conns", d.Database.MaxOpenConns)

	v.SetDefault("pipeline.max_payload_bytes", d.Pipeline.MaxPayloadBytes)
	v.SetDefault("pipeline.max_pixels", d.Pipeline.MaxPixels)
	v.SetDefault("pipeline.max_concurrent", d.Pipeline.MaxConcurrent)
	v.SetDefault("pipeline.queue_timeout", d.Pipeline.QueueTimeout)

	v.SetDefault("segmenter.brightness_threshold", d.Segmenter.BrightnessThreshold)
	v.SetDefault("segmenter.max_saturation", d.Segmenter.MaxSaturation)
	v.SetDefault("segmenter.min_value", d.Segmenter.MinValue)
	v.SetDefault("segmenter.kernel_size", d.Segmenter.KernelSize)
	v.SetDefault("segmenter.max_side", d.Segmenter.MaxSide)

	v.SetDefault("cropper.padding", d.Cropper.Padding)

	v.SetDefault("screenshot.dir", d.Screenshot.Dir)
	v.SetDefault("screenshot.retention", d.Screenshot.Retention)
	v.SetDefault("screenshot.cleanup_cron", d.Screenshot.CleanupCron)

	v.SetDefault("storage.shirt_dir", d.Storage.ShirtDir)
}

func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            ":8000",
			Mode:            "debug",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  true,
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
			TTL:      24 * time.Hour,
		},
		Database: DatabaseConfig{
			MaxIdleConns: 5,
			MaxOpenConns: 10,
		},
		Pipeline: PipelineConfig{
			MaxPayloadBytes: 10 * 1024 * 1024,
			MaxPixels:       89478485,
			MaxConcurrent:   4,
			QueueTimeout:    30 * time.Second,
		},
		Segmenter: SegmenterConfig{
			BrightnessThreshold: 200,
			MaxSaturation:       30,
			MinValue:            200,
			KernelSize:          5,
			MaxSide:             1200,
		},
		Cropper: CropperConfig{
			Padding: 10,
		},
		Screenshot: ScreenshotConfig{
			Dir:         "./screenshots",
			Retention:   0,
			CleanupCron: "@every 1h",
		},
		Storage: StorageConfig{
			ShirtDir: "./shirts",
		},
	}
}

// Default 返回内置默认配置的副本
func Default() *Config {
	return getDefaultConfig()
}
