// Package config loads the service configuration from flags and the
// environment, with .env support for local runs.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	LogLevel string

	// GeminiAPIKey is the single credential the service needs. When
	// FakeAI is set the deterministic offline gateway is used instead.
	GeminiAPIKey string
	FakeAI       bool

	Media MediaConfig
}

type MediaConfig struct {
	// Backend is "memory" (default) or "s3".
	Backend  string
	MaxClips int

	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8081", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	logLevel := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Port:         *port,
		Env:          env,
		LogLevel:     logLevel,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		FakeAI:       parseBool(os.Getenv("SANTA_FAKE_AI"), false),
		Media:        loadMediaConfig(),
	}, nil
}

func loadMediaConfig() MediaConfig {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("MEDIA_BACKEND")))
	if backend != "s3" {
		backend = "memory"
	}
	maxClips := 256
	if raw := strings.TrimSpace(os.Getenv("MEDIA_MAX_CLIPS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			maxClips = n
		}
	}
	return MediaConfig{
		Backend:   backend,
		MaxClips:  maxClips,
		Endpoint:  strings.TrimSpace(os.Getenv("MEDIA_S3_ENDPOINT")),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("MEDIA_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MEDIA_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("MEDIA_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("MEDIA_S3_BUCKET")), "santachat-media"),
		UseSSL:    parseBool(os.Getenv("MEDIA_S3_USE_SSL"), true),
	}
}

func parseBool(raw string, fallback bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
