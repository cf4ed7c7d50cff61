package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Redis         RedisConfig        `yaml:"redis"`
	Storage       StorageConfig      `yaml:"storage"`
	JWT           JWTConfig          `yaml:"jwt"`
	Hierarchy     HierarchyConfig    `yaml:"hierarchy"`
	Thumbnail     ThumbnailConfig    `yaml:"thumbnail"`
	Retention     RetentionConfig    `yaml:"retention"`
	Notifications NotificationConfig `yaml:"notifications"`
	Pagination    PaginationConfig   `yaml:"pagination"`
	Logging       LoggingConfig      `yaml:"logging"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	LockTTLMs   int    `yaml:"lock_ttl_ms"`
	LockWaitMs  int    `yaml:"lock_wait_ms"`
	LockRetryMs int    `yaml:"lock_retry_ms"`
}

type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	PublicBaseURL   string `yaml:"public_base_url"`
	MaxFileSize     int64  `yaml:"max_file_size"`
	TimeoutMs       int    `yaml:"timeout_ms"`
	WriteRetries    int    `yaml:"write_retries"`
	DownloadExpiry  int    `yaml:"download_expiry_seconds"`
}

type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type HierarchyConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type ThumbnailConfig struct {
	Enabled     bool `yaml:"enabled"`
	Width       int  `yaml:"width"`
	Height      int  `yaml:"height"`
	Quality     int  `yaml:"quality"`
	WorkerCount int  `yaml:"worker_count"`
	RetryMax    int  `yaml:"retry_max"`
	IntervalSec int  `yaml:"interval_seconds"`
}

type RetentionConfig struct {
	Enabled              bool `yaml:"enabled"`
	CleanupIntervalSec   int  `yaml:"cleanup_interval_seconds"`
	DeletedDocumentDays  int  `yaml:"deleted_document_days"`
	ReadNotificationDays int  `yaml:"read_notification_days"`
	AuditLogDays         int  `yaml:"audit_log_days"`
}

type NotificationConfig struct {
	QueueSize int `yaml:"queue_size"`
}

type PaginationConfig struct {
	DefaultPageSize int    `yaml:"default_page_size"`
	MaxPageSize     int    `yaml:"max_page_size"`
	DefaultSortBy   string `yaml:"default_sort_by"`
	DefaultOrder    string `yaml:"default_order"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

var AppConfig *Config

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	AppConfig = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 24
	}
	if cfg.Hierarchy.MaxDepth == 0 {
		cfg.Hierarchy.MaxDepth = 64
	}
	if cfg.Redis.LockTTLMs == 0 {
		cfg.Redis.LockTTLMs = 10000
	}
	if cfg.Redis.LockWaitMs == 0 {
		cfg.Redis.LockWaitMs = 5000
	}
	if cfg.Redis.LockRetryMs == 0 {
		cfg.Redis.LockRetryMs = 50
	}
	if cfg.Storage.TimeoutMs == 0 {
		cfg.Storage.TimeoutMs = 15000
	}
	if cfg.Storage.WriteRetries == 0 {
		cfg.Storage.WriteRetries = 3
	}
	if cfg.Storage.DownloadExpiry == 0 {
		cfg.Storage.DownloadExpiry = 900
	}
	if cfg.Notifications.QueueSize == 0 {
		cfg.Notifications.QueueSize = 256
	}
	if cfg.Pagination.DefaultPageSize == 0 {
		cfg.Pagination.DefaultPageSize = 20
	}
	if cfg.Pagination.MaxPageSize == 0 {
		cfg.Pagination.MaxPageSize = 100
	}
	if cfg.Pagination.DefaultSortBy == "" {
		cfg.Pagination.DefaultSortBy = "created_at"
	}
	if cfg.Pagination.DefaultOrder == "" {
		cfg.Pagination.DefaultOrder = "desc"
	}
}
