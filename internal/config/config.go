package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	WhisperXURL string `envconfig:"WHISPERX_URL" default:"http://localhost:9000"`

	LLMBaseURL          string `envconfig:"LLM_BASE_URL" default:"http://localhost:11434/v1"`
	LLMAPIKey           string `envconfig:"LLM_API_KEY"`
	LLMModel            string `envconfig:"LLM_MODEL" default:"llama3.2:3b"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"nomic-embed-text"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"768"`

	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"auto"`
	StoragePath     string `envconfig:"STORAGE_PATH" default:"./storage"`
	ChunkSize       int    `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap    int    `envconfig:"CHUNK_OVERLAP" default:"50"`
	TrackWorkers    int    `envconfig:"TRACK_WORKERS" default:"4"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"speakinsights-recordings"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("SPEAK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
