package internal

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/strongclose/media-offload/internal/thumbnail"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Uploads    UploadsConfig    `mapstructure:"uploads"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Thumbnails ThumbnailConfig  `mapstructure:"thumbnails"`
	Rewrite    RewriteConfig    `mapstructure:"rewrite"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AdminToken     string   `mapstructure:"admin_token"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Path           string `mapstructure:"path"`
	MigrationsPath string `mapstructure:"migrations_path"`
}

type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

type RemoteConfig struct {
	BaseURL              string `mapstructure:"base_url"`
	CDNBaseURL           string `mapstructure:"cdn_base_url"`
	SiteID               string `mapstructure:"site_id"`
	APIKey               string `mapstructure:"api_key"`
	TimeoutSeconds       int    `mapstructure:"timeout_seconds"`
	UploadTimeoutSeconds int    `mapstructure:"upload_timeout_seconds"`
}

type SyncConfig struct {
	DeleteLocalFiles bool           `mapstructure:"delete_local_files"`
	BatchSize        int            `mapstructure:"batch_size"`
	AutoSync         AutoSyncConfig `mapstructure:"auto_sync"`
}

type AutoSyncConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	BatchSize       int  `mapstructure:"batch_size"`
	PauseMillis     int  `mapstructure:"pause_millis"`
}

type ThumbnailConfig struct {
	Sizes map[string]thumbnail.Dimensions `mapstructure:"sizes"`
}

type RewriteConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("MEDIA_OFFLOAD_CONFIG")
	if path == "" {
		path = "files/config.yaml"
	}
	viper.SetConfigFile(path)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("database.path", "files/media-offload.db")
	viper.SetDefault("database.migrations_path", "files/migrations")
	viper.SetDefault("sync.batch_size", 10)
	viper.SetDefault("sync.auto_sync.interval_minutes", 60)
	viper.SetDefault("sync.auto_sync.batch_size", 10)
	viper.SetDefault("sync.auto_sync.pause_millis", 500)
	viper.SetDefault("remote.base_url", "https://api.strongclose.ai")
	viper.SetDefault("remote.cdn_base_url", "https://cdn.strongclose.ai")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
