// Package cli holds the speakinsightsd subcommands and their wiring.
package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/speakinsights/speakinsights/internal/calendar"
	"github.com/speakinsights/speakinsights/internal/config"
	"github.com/speakinsights/speakinsights/internal/database"
	"github.com/speakinsights/speakinsights/internal/llm"
	"github.com/speakinsights/speakinsights/internal/repository"
	"github.com/speakinsights/speakinsights/internal/sentiment"
	"github.com/speakinsights/speakinsights/internal/service"
	"github.com/speakinsights/speakinsights/internal/storage"
	"github.com/speakinsights/speakinsights/internal/transcript"
	"github.com/speakinsights/speakinsights/internal/whisperx"
)

// application bundles everything both subcommands need.
type application struct {
	cfg      *config.Config
	pool     *pgxpool.Pool
	pipeline *service.Pipeline
	chat     *service.ChatService
	meetings *repository.MeetingRepository

	summaries *repository.SummaryRepository
	tasks     *repository.TaskRepository
	segments  *repository.SegmentRepository
}

// noAudioStore stands in when object storage is not configured; tracks
// must then carry a local file path.
type noAudioStore struct{}

func (noAudioStore) FetchToFile(ctx context.Context, key, destPath string) error {
	return fmt.Errorf("cannot fetch %s: object storage not configured (set SPEAK_S3_ENDPOINT)", key)
}

func buildApplication(ctx context.Context, cfg *config.Config) (*application, func(), error) {
	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("connected to database")

	meetingRepo := repository.NewMeetingRepository(pool)
	recordingRepo := repository.NewRecordingRepository(pool)
	participantRepo := repository.NewParticipantRepository(pool)
	segmentRepo := repository.NewSegmentRepository(pool)
	chunkRepo := repository.NewChunkRepository(pool)
	summaryRepo := repository.NewSummaryRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var audio service.AudioStore = noAudioStore{}
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		audio = s3Client
	}

	speech := whisperx.NewClient(whisperx.Config{
		BaseURL:         cfg.WhisperXURL,
		DefaultLanguage: cfg.DefaultLanguage,
	})

	model := llm.NewClient(llm.Config{
		BaseURL:             cfg.LLMBaseURL,
		APIKey:              cfg.LLMAPIKey,
		Model:               cfg.LLMModel,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	pipeline := service.NewPipeline(
		meetingRepo,
		recordingRepo,
		participantRepo,
		txRunner,
		speech,
		model,
		sentiment.NewScorer(),
		audio,
		calendar.NewGenerator(cfg.StoragePath),
		service.PipelineConfig{
			StoragePath: cfg.StoragePath,
			ChunkConfig: transcript.ChunkConfig{
				ChunkSize: cfg.ChunkSize,
				Overlap:   cfg.ChunkOverlap,
			},
			TrackWorkers:    cfg.TrackWorkers,
			DefaultLanguage: cfg.DefaultLanguage,
		},
	)

	app := &application{
		cfg:       cfg,
		pool:      pool,
		pipeline:  pipeline,
		chat:      service.NewChatService(meetingRepo, chunkRepo, model),
		meetings:  meetingRepo,
		summaries: summaryRepo,
		tasks:     taskRepo,
		segments:  segmentRepo,
	}
	return app, pool.Close, nil
}
