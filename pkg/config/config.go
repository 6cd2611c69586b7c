package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
	Upload   UploadConfig   `yaml:"upload"`
	Storage  StorageConfig  `yaml:"storage"`
	Media    MediaConfig    `yaml:"media"`
	Settings SettingsConfig `yaml:"settings"`
	Redis    RedisConfig    `yaml:"redis"`
}

// RedisConfig defines Redis connection settings for distributed locking.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// UploadConfig defines file upload constraints.
type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// StorageConfig selects and configures the object store backend.
type StorageConfig struct {
	Type  string             `yaml:"type"`
	Local LocalStorageConfig `yaml:"local"`
	S3    S3StorageConfig    `yaml:"s3"`
}

// LocalStorageConfig holds local filesystem storage settings.
type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
}

// S3StorageConfig holds S3-compatible storage settings.
type S3StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	PathStyle bool   `yaml:"path_style"`
	URLMode   string `yaml:"url_mode"`
	PublicURL string `yaml:"public_url"`
}

// MediaConfig defines the image pipeline settings: the storage key prefix,
// the public base URL and the variant set. Variants are fixed for the
// lifetime of the process; changing them is a deployment-time decision.
type MediaConfig struct {
	KeyPrefix string          `yaml:"key_prefix"`
	BaseURL   string          `yaml:"base_url"`
	Variants  []VariantConfig `yaml:"variants"`
}

// VariantConfig describes one re-encoding of a source image.
type VariantConfig struct {
	Name      string `yaml:"name"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
	Quality   int    `yaml:"quality"`
}

// SettingsConfig points at the YAML files holding site-setting defaults.
// SeedSampleData also creates sample categories and products on an empty
// database.
type SettingsConfig struct {
	DefaultsDir    string `yaml:"defaults_dir"`
	SeedSampleData bool   `yaml:"seed_sample_data"`
}

// ServerConfig defines HTTP server options. An empty AdminToken leaves the
// admin API unguarded, which is only sensible for local development.
type ServerConfig struct {
	Address    string `yaml:"address"`
	AdminToken string `yaml:"admin_token"`
}

// DatabaseConfig defines the database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the binary executable.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	return &parsed, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/catalog.db",
			},
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Upload: UploadConfig{
			MaxSize: 10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
				"image/bmp",
				"image/x-ms-bmp",
				"image/tiff",
			},
		},
		Storage: StorageConfig{
			Type: "local",
			Local: LocalStorageConfig{
				BasePath: "data/uploads",
			},
			S3: S3StorageConfig{
				Region:  "ap-south-1",
				URLMode: "public",
			},
		},
		Media: MediaConfig{
			KeyPrefix: "catalog/images",
		},
		Settings: SettingsConfig{
			DefaultsDir: "config/site_settings",
		},
	}
	cfg.Media.Variants = defaultVariants()
	return cfg
}

func defaultVariants() []VariantConfig {
	return []VariantConfig{
		{Name: "original", MaxWidth: 1200, MaxHeight: 1200, Quality: 85},
		{Name: "thumbnail", MaxWidth: 300, MaxHeight: 300, Quality: 80},
		{Name: "micro", MaxWidth: 50, MaxHeight: 50, Quality: 70},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = "data/catalog.db"
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = "data/uploads"
	}
	if cfg.Media.KeyPrefix == "" {
		cfg.Media.KeyPrefix = "catalog/images"
	}
	if len(cfg.Media.Variants) == 0 {
		cfg.Media.Variants = defaultVariants()
	}
	if cfg.Settings.DefaultsDir == "" {
		cfg.Settings.DefaultsDir = "config/site_settings"
	}
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024
	}
}

// findConfigFile searches for a config file in the current directory first,
// then next to the binary executable. Returns the full path or empty string.
func findConfigFile(name string) string {
	// 1. Current working directory
	if _, err := os.Stat(name); err == nil {
		abs, _ := filepath.Abs(name)
		return abs
	}

	// 2. Next to the binary executable
	exe, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exe)
		candidate := filepath.Join(exeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// NormalizeBasePath cleans up user input and returns a URL path prefix suitable for routing.
// Examples:
//
//	"", "/", " ."        -> ""
//	"catalog"            -> "/catalog"
//	"/catalog/"          -> "/catalog"
//	"/nested/prefix/"    -> "/nested/prefix"
func NormalizeBasePath(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	cleaned := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	if cleaned == "." || cleaned == "/" {
		return ""
	}
	return strings.TrimSuffix(cleaned, "/")
}
