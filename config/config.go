package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	AWS    AWSConfig
	Redis  RedisConfig
	JWT    JWTConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins []string
}

type AWSConfig struct {
	Region      string
	TablePrefix string
	S3Bucket    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// Load reads configuration from the environment with sane defaults.
// Every endpoint and key is environment-sourced; nothing is hardcoded.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("AWS_REGION", "eu-north-1")
	v.SetDefault("TABLE_PREFIX", "")
	v.SetDefault("S3_BUCKET_NAME", "")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_EXPIRY", "24h")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			AllowOrigins: strings.Split(v.GetString("CORS_ALLOW_ORIGINS"), ","),
		},
		AWS: AWSConfig{
			Region:      v.GetString("AWS_REGION"),
			TablePrefix: v.GetString("TABLE_PREFIX"),
			S3Bucket:    v.GetString("S3_BUCKET_NAME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Expiry: v.GetDuration("JWT_EXPIRY"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}
